package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	"github.com/lunelaser/lunebill/internal/invoice/render"
)

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_query", err.Error()))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices})
}

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req invoicedomain.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "malformed request body"))
		return
	}

	invoice, err := s.invoiceSvc.Generate(c.Request.Context(), req)
	s.billingMetrics.InvoicesGenerated.WithLabelValues(generateOutcome(err)).Inc()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"id":             invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"total_amount":   invoice.TotalAmount,
	}})
}

func generateOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, invoicedomain.ErrAlreadyExists):
		return "conflict"
	case errors.Is(err, invoicedomain.ErrNoMachines):
		return "no_machines"
	case errors.Is(err, invoicedomain.ErrDependency):
		return "dependency_failure"
	default:
		return "rejected"
	}
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "malformed request body"))
		return
	}

	var (
		invoice invoicedomain.Invoice
		err     error
	)
	switch invoicedomain.InvoiceStatus(req.Status) {
	case invoicedomain.InvoiceStatusPaid:
		invoice, err = s.invoiceSvc.MarkPaid(c.Request.Context(), id)
	case invoicedomain.InvoiceStatusUnpaid:
		invoice, err = s.invoiceSvc.MarkUnpaid(c.Request.Context(), id)
	default:
		AbortWithError(c, newValidationError("status", "invalid_status", "status must be paid or unpaid"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.RenderInvoice(c.Request.Context(), invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (s *Server) DownloadInvoiceCSV(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := render.CSV(invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", invoice.InvoiceNumber))
	c.Data(http.StatusOK, "text/csv", doc)
}

func (s *Server) SendInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.invoiceSvc.SendByEmail(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sent": true}})
}
