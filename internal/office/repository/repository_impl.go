package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/office/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, office *domain.Office) error {
	return db.WithContext(ctx).Create(office).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, office *domain.Office) error {
	return db.WithContext(ctx).Save(office).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Office, error) {
	var office domain.Office
	err := db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		Limit(1).
		Find(&office).Error
	if err != nil {
		return nil, err
	}
	if office.ID == 0 {
		return nil, nil
	}
	return &office, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListOfficeFilter) ([]domain.Office, error) {
	var offices []domain.Office
	stmt := db.WithContext(ctx).Model(&domain.Office{})
	if !filter.IncludeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if filter.Search != "" {
		stmt = stmt.Where("name LIKE ? OR npi_id LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	err := stmt.Order("created_at desc, id desc").Find(&offices).Error
	if err != nil {
		return nil, err
	}
	return offices, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Office{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
