package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOfficeFilter struct {
	Search         string
	IncludeDeleted bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, office *Office) error
	Update(ctx context.Context, db *gorm.DB, office *Office) error
	// FindByID returns nil when the office does not exist or is soft-deleted.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Office, error)
	List(ctx context.Context, db *gorm.DB, filter ListOfficeFilter) ([]Office, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
