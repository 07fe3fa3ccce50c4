package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	obsmetrics "github.com/lunelaser/lunebill/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoiceService struct {
	invoice     invoicedomain.Invoice
	generateErr error
	getErr      error
	markPaid    int
	markUnpaid  int
	sent        int
}

func (f *fakeInvoiceService) Generate(ctx context.Context, req invoicedomain.GenerateInvoiceRequest) (invoicedomain.Invoice, error) {
	if f.generateErr != nil {
		return invoicedomain.Invoice{}, f.generateErr
	}
	return f.invoice, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	return invoicedomain.ListInvoiceResponse{Invoices: []invoicedomain.Invoice{f.invoice}}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	if f.getErr != nil {
		return invoicedomain.Invoice{}, f.getErr
	}
	return f.invoice, nil
}

func (f *fakeInvoiceService) MarkPaid(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	f.markPaid++
	return f.invoice, nil
}

func (f *fakeInvoiceService) MarkUnpaid(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	f.markUnpaid++
	return f.invoice, nil
}

func (f *fakeInvoiceService) SendByEmail(ctx context.Context, id snowflake.ID) error {
	f.sent++
	return nil
}

type fakePDFProvider struct{}

func (fakePDFProvider) RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func setupInvoiceServer(t *testing.T, svc invoicedomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	billing, err := obsmetrics.NewBillingMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:         engine,
		invoiceSvc:     svc,
		pdf:            fakePDFProvider{},
		billingMetrics: billing,
	}
	s.registerAPIRoutes()
	return s
}

func TestGenerateInvoiceEndpoint(t *testing.T) {
	fake := &fakeInvoiceService{
		invoice: invoicedomain.Invoice{
			ID:            snowflake.ID(42),
			InvoiceNumber: "INV-202503-1234567890",
			TotalAmount:   decimal.RequireFromString("10.86"),
		},
	}
	s := setupInvoiceServer(t, fake)

	body := bytes.NewBufferString(`{"office_id":"7","month":3,"year":2025}`)
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/generate", body)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INV-202503-1234567890", resp.Data.InvoiceNumber)
}

func TestGenerateInvoiceEndpointConflict(t *testing.T) {
	s := setupInvoiceServer(t, &fakeInvoiceService{generateErr: invoicedomain.ErrAlreadyExists})

	body := bytes.NewBufferString(`{"office_id":"7","month":3,"year":2025}`)
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/generate", body)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"conflict"`)
}

func TestGenerateInvoiceEndpointNoMachines(t *testing.T) {
	s := setupInvoiceServer(t, &fakeInvoiceService{generateErr: invoicedomain.ErrNoMachines})

	body := bytes.NewBufferString(`{"office_id":"7","month":3,"year":2025}`)
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/generate", body)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"invalid_state"`)
}

func TestGetInvoiceRejectsBadID(t *testing.T) {
	s := setupInvoiceServer(t, &fakeInvoiceService{})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/not-a-number", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_id"`)
}

func TestGetInvoiceNotFound(t *testing.T) {
	s := setupInvoiceServer(t, &fakeInvoiceService{getErr: invoicedomain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/42", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateInvoiceStatusDispatch(t *testing.T) {
	fake := &fakeInvoiceService{}
	s := setupInvoiceServer(t, fake)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/invoices/42/status", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, patch(`{"status":"paid"}`).Code)
	assert.Equal(t, 1, fake.markPaid)

	assert.Equal(t, http.StatusOK, patch(`{"status":"unpaid"}`).Code)
	assert.Equal(t, 1, fake.markUnpaid)

	rec := patch(`{"status":"void"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_status"`)
}

func TestDownloadInvoicePDF(t *testing.T) {
	fake := &fakeInvoiceService{
		invoice: invoicedomain.Invoice{
			ID:            snowflake.ID(42),
			InvoiceNumber: "INV-202503-1234567890",
		},
	}
	s := setupInvoiceServer(t, fake)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/42/pdf", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "INV-202503-1234567890.pdf")
}

func TestSendInvoiceEndpoint(t *testing.T) {
	fake := &fakeInvoiceService{}
	s := setupInvoiceServer(t, fake)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/42/send", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fake.sent)
}
