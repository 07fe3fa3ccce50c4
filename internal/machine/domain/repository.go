package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListMachineFilter struct {
	Search         string
	OfficeID       snowflake.ID
	IncludeDeleted bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, machine *Machine) error
	Update(ctx context.Context, db *gorm.DB, machine *Machine) error
	// FindByID returns nil when the machine does not exist or is soft-deleted.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Machine, error)
	FindBySerial(ctx context.Context, db *gorm.DB, serial string) (*Machine, error)
	List(ctx context.Context, db *gorm.DB, filter ListMachineFilter) ([]Machine, error)
	ListActiveByOffice(ctx context.Context, db *gorm.DB, officeID snowflake.ID) ([]Machine, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
