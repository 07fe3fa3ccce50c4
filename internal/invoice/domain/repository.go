package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	OfficeID snowflake.ID
	Year     int
	Status   InvoiceStatus
}

type Repository interface {
	// Insert persists the invoice. The (office_id, month, year) unique index
	// rejects a concurrent duplicate deterministically.
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByPeriod(ctx context.Context, db *gorm.DB, officeID snowflake.ID, month, year int) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter) ([]Invoice, error)
	// UpdateStatus flips status and stamps or clears paid_at. Reports false
	// when the invoice does not exist.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status InvoiceStatus, paidAt *time.Time) (bool, error)
}
