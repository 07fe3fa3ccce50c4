package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateMachineRequest struct {
	SerialNumber string       `json:"serial_number"`
	OfficeID     snowflake.ID `json:"office_id"`
	Model        string       `json:"model"`
	PurchaseDate time.Time    `json:"purchase_date"`
}

type UpdateMachineRequest struct {
	SerialNumber *string    `json:"serial_number"`
	Model        *string    `json:"model"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

type ListMachineRequest struct {
	Search         string       `form:"search"`
	OfficeID       snowflake.ID `form:"office_id"`
	IncludeDeleted bool         `form:"include_deleted"`
}

type ListMachineResponse struct {
	Machines []Machine `json:"machines"`
}

type Service interface {
	Create(ctx context.Context, req CreateMachineRequest) (Machine, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateMachineRequest) (Machine, error)
	GetByID(ctx context.Context, id snowflake.ID) (Machine, error)
	GetBySerial(ctx context.Context, serial string) (Machine, error)
	List(ctx context.Context, req ListMachineRequest) (ListMachineResponse, error)
	// ListActiveByOffice returns the non-deleted machines billed for an
	// office; the invoice generator depends on this view.
	ListActiveByOffice(ctx context.Context, officeID snowflake.ID) ([]Machine, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound            = errors.New("machine_not_found")
	ErrSerialExists        = errors.New("serial_number_exists")
	ErrInvalidSerial       = errors.New("invalid_serial_number")
	ErrInvalidOffice       = errors.New("invalid_office")
	ErrInvalidPurchaseDate = errors.New("invalid_purchase_date")
)
