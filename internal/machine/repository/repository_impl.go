package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/machine/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, machine *domain.Machine) error {
	return db.WithContext(ctx).Create(machine).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, machine *domain.Machine) error {
	return db.WithContext(ctx).Save(machine).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Machine, error) {
	var machine domain.Machine
	err := db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		Limit(1).
		Find(&machine).Error
	if err != nil {
		return nil, err
	}
	if machine.ID == 0 {
		return nil, nil
	}
	return &machine, nil
}

func (r *repo) FindBySerial(ctx context.Context, db *gorm.DB, serial string) (*domain.Machine, error) {
	var machine domain.Machine
	err := db.WithContext(ctx).
		Where("serial_number = ? AND is_deleted = ?", serial, false).
		Limit(1).
		Find(&machine).Error
	if err != nil {
		return nil, err
	}
	if machine.ID == 0 {
		return nil, nil
	}
	return &machine, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMachineFilter) ([]domain.Machine, error) {
	var machines []domain.Machine
	stmt := db.WithContext(ctx).Model(&domain.Machine{})
	if !filter.IncludeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if filter.OfficeID != 0 {
		stmt = stmt.Where("office_id = ?", filter.OfficeID)
	}
	if filter.Search != "" {
		stmt = stmt.Where("serial_number LIKE ?", "%"+filter.Search+"%")
	}
	err := stmt.Order("created_at desc, id desc").Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *repo) ListActiveByOffice(ctx context.Context, db *gorm.DB, officeID snowflake.ID) ([]domain.Machine, error) {
	var machines []domain.Machine
	err := db.WithContext(ctx).
		Where("office_id = ? AND is_deleted = ?", officeID, false).
		Order("serial_number asc").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Machine{}).
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
