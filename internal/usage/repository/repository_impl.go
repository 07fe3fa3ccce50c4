package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/period"
	"github.com/lunelaser/lunebill/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Save(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.UsageRecord, error) {
	var record domain.UsageRecord
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListUsageFilter) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	stmt := db.WithContext(ctx).Model(&domain.UsageRecord{})
	if filter.MachineID != 0 {
		stmt = stmt.Where("machine_id = ?", filter.MachineID)
	}
	if filter.AfterID != 0 {
		stmt = stmt.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	err := stmt.Order("id desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.UsageRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// monthRange applies the shared calendar-month predicate. The half-open
// range on usage_date tracks real month boundaries on every dialect; no
// engine-specific date formatting.
func monthRange(stmt *gorm.DB, m period.Month) *gorm.DB {
	return stmt.Where("usage_date >= ? AND usage_date < ?", m.Start(), m.End())
}

func (r *repo) AggregateForMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, m period.Month) ([]domain.ButtonAggregate, error) {
	if len(machineIDs) == 0 {
		return nil, nil
	}
	var rows []domain.ButtonAggregate
	stmt := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Select("machine_id, button_number, COUNT(*) AS press_count, SUM(duration_seconds) AS total_duration_seconds").
		Where("machine_id IN ?", machineIDs)
	err := monthRange(stmt, m).
		Group("machine_id, button_number").
		Order("machine_id, button_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) StatsForMachine(ctx context.Context, db *gorm.DB, machineID snowflake.ID, m period.Month) ([]domain.ButtonStats, error) {
	var rows []domain.ButtonStats
	stmt := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Select(`button_number,
			COUNT(*) AS press_count,
			SUM(duration_seconds) AS total_duration_seconds,
			AVG(duration_seconds) AS avg_duration_seconds,
			MIN(duration_seconds) AS min_duration_seconds,
			MAX(duration_seconds) AS max_duration_seconds`).
		Where("machine_id = ?", machineID)
	err := monthRange(stmt, m).
		Group("button_number").
		Order("button_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListForMachineMonth(ctx context.Context, db *gorm.DB, machineID snowflake.ID, m period.Month) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	stmt := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Where("machine_id = ?", machineID)
	err := monthRange(stmt, m).
		Order("start_time asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) AvailableMonths(ctx context.Context, db *gorm.DB, machineID snowflake.ID) ([]domain.AvailableMonth, error) {
	// Per-day counts folded into months in Go keeps the query free of
	// engine-specific date extraction.
	var days []struct {
		UsageDate time.Time
		Count     int64
	}
	err := db.WithContext(ctx).
		Model(&domain.UsageRecord{}).
		Select("usage_date, COUNT(*) AS count").
		Where("machine_id = ?", machineID).
		Group("usage_date").
		Order("usage_date desc").
		Scan(&days).Error
	if err != nil {
		return nil, err
	}

	var months []domain.AvailableMonth
	for _, day := range days {
		d := day.UsageDate.UTC()
		if n := len(months); n > 0 && months[n-1].Year == d.Year() && months[n-1].Month == int(d.Month()) {
			months[n-1].UsageCount += day.Count
			continue
		}
		months = append(months, domain.AvailableMonth{
			Year:       d.Year(),
			Month:      int(d.Month()),
			UsageCount: day.Count,
		})
	}
	return months, nil
}
