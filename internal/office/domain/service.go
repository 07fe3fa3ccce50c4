package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateOfficeRequest struct {
	Name          string `json:"name"`
	NPIID         string `json:"npi_id"`
	Address       string `json:"address"`
	Town          string `json:"town"`
	State         string `json:"state"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person"`
}

type UpdateOfficeRequest struct {
	Name          *string `json:"name"`
	NPIID         *string `json:"npi_id"`
	Address       *string `json:"address"`
	Town          *string `json:"town"`
	State         *string `json:"state"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contact_person"`
}

type ListOfficeRequest struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"include_deleted"`
}

type ListOfficeResponse struct {
	Offices []Office `json:"offices"`
}

type Service interface {
	Create(ctx context.Context, req CreateOfficeRequest) (Office, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateOfficeRequest) (Office, error)
	GetByID(ctx context.Context, id snowflake.ID) (Office, error)
	List(ctx context.Context, req ListOfficeRequest) (ListOfficeResponse, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound     = errors.New("office_not_found")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidNPIID = errors.New("invalid_npi_id")
	ErrInvalidEmail = errors.New("invalid_email")
)
