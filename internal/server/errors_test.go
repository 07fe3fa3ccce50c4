package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	"github.com/lunelaser/lunebill/internal/period"
	usagedomain "github.com/lunelaser/lunebill/internal/usage/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid month", period.ErrInvalidMonth, http.StatusBadRequest, "validation_error"},
		{"invalid year", period.ErrInvalidYear, http.StatusBadRequest, "validation_error"},
		{"invalid button", usagedomain.ErrInvalidButton, http.StatusBadRequest, "validation_error"},
		{"invalid time range", usagedomain.ErrInvalidTimeRange, http.StatusBadRequest, "validation_error"},
		{"office missing", officedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"machine missing", machinedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invoice missing", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"usage missing", usagedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"duplicate invoice", invoicedomain.ErrAlreadyExists, http.StatusConflict, "conflict"},
		{"duplicate serial", machinedomain.ErrSerialExists, http.StatusConflict, "conflict"},
		{"no machines", invoicedomain.ErrNoMachines, http.StatusUnprocessableEntity, "invalid_state"},
		{"no recipient", invoicedomain.ErrNoRecipient, http.StatusUnprocessableEntity, "invalid_state"},
		{"store down", invoicedomain.ErrDependency, http.StatusServiceUnavailable, "dependency_failure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantType, payload.Type)
		})
	}
}

func TestMapErrorSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("persist invoice: %w",
		errors.Join(invoicedomain.ErrDependency, errors.New("connection refused")))

	status, payload := mapError(wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "dependency_failure", payload.Type)
	// The cause never reaches the response body.
	assert.NotContains(t, payload.Message, "connection refused")
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(newValidationError("id", "invalid_id", "invalid id"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", payload.Type)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "id", payload.Errors[0].Field)
		assert.Equal(t, "invalid_id", payload.Errors[0].Code)
	}
}
