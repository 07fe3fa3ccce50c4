package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/period"
	"gorm.io/gorm"
)

// ButtonAggregate is one (machine, button) usage rollup for a billing month.
type ButtonAggregate struct {
	MachineID            snowflake.ID
	ButtonNumber         int
	PressCount           int64
	TotalDurationSeconds int64
}

type ListUsageFilter struct {
	MachineID snowflake.ID
	Limit     int
	AfterID   snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	Update(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UsageRecord, error)
	List(ctx context.Context, db *gorm.DB, filter ListUsageFilter) ([]UsageRecord, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	// AggregateForMachines groups usage by (machine, button) for all given
	// machines inside the billing month. Feeds invoice generation.
	AggregateForMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, m period.Month) ([]ButtonAggregate, error)
	// StatsForMachine is the per-button aggregate with duration statistics
	// for one machine inside the billing month.
	StatsForMachine(ctx context.Context, db *gorm.DB, machineID snowflake.ID, m period.Month) ([]ButtonStats, error)
	// ListForMachineMonth returns the raw records for one machine inside the
	// billing month, ordered by start_time ascending.
	ListForMachineMonth(ctx context.Context, db *gorm.DB, machineID snowflake.ID, m period.Month) ([]UsageRecord, error)
	AvailableMonths(ctx context.Context, db *gorm.DB, machineID snowflake.ID) ([]AvailableMonth, error)
}
