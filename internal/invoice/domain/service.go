package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type GenerateInvoiceRequest struct {
	OfficeID snowflake.ID `json:"office_id"`
	Month    int          `json:"month"`
	Year     int          `json:"year"`
}

type ListInvoiceRequest struct {
	OfficeID snowflake.ID `form:"office_id"`
	Year     int          `form:"year"`
	Status   string       `form:"status"`
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	// Generate produces and persists the one invoice for the billing period.
	// Everything before the insert is pure computation over a loaded
	// snapshot; the insert is the only state-mutating step.
	Generate(ctx context.Context, req GenerateInvoiceRequest) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	MarkPaid(ctx context.Context, id snowflake.ID) (Invoice, error)
	MarkUnpaid(ctx context.Context, id snowflake.ID) (Invoice, error)
	// SendByEmail renders the invoice PDF and mails it to the office on
	// record.
	SendByEmail(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrAlreadyExists = errors.New("invoice_already_exists")
	// ErrNoMachines means the office has nothing to bill: no active machine.
	ErrNoMachines = errors.New("no_machines_to_bill")
	// ErrDependency marks a collaborator store failure. It is the only
	// retryable error: generation performs no partial writes.
	ErrDependency = errors.New("dependency_failure")
	ErrNoRecipient = errors.New("office_has_no_email")
)
