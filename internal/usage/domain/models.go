// Package domain contains persistence models for button usage telemetry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageRecord is one observed, timed button press on a Lune machine.
// Records are immutable once written and are never deleted by the invoice
// path. UsageDate is the calendar date used for month bucketing; it is kept
// separate from StartTime so the vendor can realign record attribution.
type UsageRecord struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	MachineID       snowflake.ID `gorm:"column:machine_id;not null;index" json:"machine_id"`
	ButtonNumber    int          `gorm:"not null" json:"button_number"`
	StartTime       time.Time    `gorm:"not null" json:"start_time"`
	EndTime         time.Time    `gorm:"not null" json:"end_time"`
	DurationSeconds int64        `gorm:"not null" json:"duration_seconds"`
	UsageDate       time.Time    `gorm:"type:date;not null;index" json:"usage_date"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "button_usage" }
