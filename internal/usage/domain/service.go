package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/pkg/db/pagination"
)

type RecordUsageRequest struct {
	MachineID    snowflake.ID `json:"machine_id"`
	ButtonNumber int          `json:"button_number"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	// UsageDate is optional; it defaults to StartTime's UTC calendar date.
	UsageDate *time.Time `json:"usage_date"`
}

// UpdateUsageRequest corrects a record after the fact. This is an
// administrative fixup path; the billing pipeline itself never mutates
// usage.
type UpdateUsageRequest struct {
	ButtonNumber *int       `json:"button_number"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	UsageDate    *time.Time `json:"usage_date"`
}

type ListUsageRequest struct {
	MachineID snowflake.ID `form:"machine_id"`
	pagination.Pagination
}

type ListUsageResponse struct {
	pagination.PageInfo
	UsageRecords []UsageRecord `json:"usage_records"`
}

// ButtonStats is the per-button aggregate for one calendar month.
type ButtonStats struct {
	ButtonNumber         int     `json:"button_number"`
	PressCount           int64   `json:"press_count"`
	TotalDurationSeconds int64   `json:"total_duration_seconds"`
	AvgDurationSeconds   float64 `json:"avg_duration_seconds"`
	MinDurationSeconds   int64   `json:"min_duration_seconds"`
	MaxDurationSeconds   int64   `json:"max_duration_seconds"`
}

// MonthlyStats is the drill-down view for one machine and month: the same
// per-button aggregates that feed invoice generation, plus the raw records
// in start-time order.
type MonthlyStats struct {
	MachineID snowflake.ID  `json:"machine_id"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	Summary   []ButtonStats `json:"summary"`
	Details   []UsageRecord `json:"details"`
}

// AvailableMonth is one (year, month) that has recorded usage.
type AvailableMonth struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	UsageCount int64 `json:"usage_count"`
}

type Service interface {
	Record(ctx context.Context, req RecordUsageRequest) (UsageRecord, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateUsageRequest) (UsageRecord, error)
	List(ctx context.Context, req ListUsageRequest) (ListUsageResponse, error)
	MonthlyStats(ctx context.Context, machineID snowflake.ID, year, month int) (MonthlyStats, error)
	AvailableMonths(ctx context.Context, machineID snowflake.ID) ([]AvailableMonth, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound         = errors.New("usage_record_not_found")
	ErrInvalidMachine   = errors.New("invalid_machine")
	ErrInvalidButton    = errors.New("invalid_button_number")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
