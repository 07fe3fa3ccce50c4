// Package domain contains persistence models for Lune machines.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Machine is one installed Lune laser device. A machine belongs to exactly
// one office for its lifetime; ownership never transfers.
type Machine struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SerialNumber string       `gorm:"type:text;not null;uniqueIndex:ux_machine_serial" json:"serial_number"`
	OfficeID     snowflake.ID `gorm:"column:office_id;not null;index" json:"office_id"`
	Model        string       `gorm:"type:text" json:"model"`
	PurchaseDate time.Time    `gorm:"type:date;not null" json:"purchase_date"`
	IsDeleted    bool         `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Machine) TableName() string { return "lune_machines" }
