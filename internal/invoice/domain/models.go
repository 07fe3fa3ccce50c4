// Package domain contains persistence models for generated invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus is the invoice lifecycle. There are exactly two states;
// paid stamps PaidAt and unpaid clears it.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// Invoice is the generated billing artifact for one (office, month, year).
// The composite unique index is the idempotency invariant: the store, not
// the generator, is the final arbiter that at most one invoice exists per
// period. Only Status and PaidAt mutate after creation.
type Invoice struct {
	ID            snowflake.ID                    `gorm:"primaryKey" json:"id"`
	OfficeID      snowflake.ID                    `gorm:"column:office_id;not null;uniqueIndex:ux_invoice_office_period" json:"office_id"`
	Month         int                             `gorm:"not null;uniqueIndex:ux_invoice_office_period" json:"month"`
	Year          int                             `gorm:"not null;uniqueIndex:ux_invoice_office_period" json:"year"`
	InvoiceNumber string                          `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	TotalAmount   decimal.Decimal                 `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Data          datatypes.JSONType[InvoiceData] `gorm:"column:invoice_data" json:"invoice_data"`
	Status        InvoiceStatus                   `gorm:"type:text;not null;default:'unpaid'" json:"status"`
	GeneratedAt   time.Time                       `gorm:"not null" json:"generated_at"`
	PaidAt        *time.Time                      `gorm:"" json:"paid_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceData is the full nested breakdown persisted with the invoice.
// Field names are stable; the rendering layer and any existing consumer of
// the document depend on this exact shape.
type InvoiceData struct {
	Office      OfficeSnapshot  `json:"office"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Lunes       []LuneBreakdown `json:"lunes"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OfficeSnapshot freezes the office at generation time.
type OfficeSnapshot struct {
	ID            snowflake.ID `json:"id"`
	Name          string       `json:"name"`
	NPIID         string       `json:"npi_id"`
	Address       string       `json:"address"`
	Town          string       `json:"town"`
	State         string       `json:"state"`
	Email         string       `json:"email"`
	ContactPerson string       `json:"contact_person"`
}

// LuneBreakdown is one machine's priced usage: always all six buttons,
// including those with zero observed usage.
type LuneBreakdown struct {
	SerialNumber string               `json:"serial_number"`
	PurchaseDate string               `json:"purchase_date"`
	Buttons      []pricing.ButtonLine `json:"buttons"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
}
