// Package domain contains persistence models for dental offices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Office is a billing entity. The NPI ID is an external regulatory
// identifier embedded in invoice numbers.
type Office struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:text;not null" json:"name"`
	NPIID         string       `gorm:"column:npi_id;type:text;not null" json:"npi_id"`
	Address       string       `gorm:"type:text" json:"address"`
	Town          string       `gorm:"type:text" json:"town"`
	State         string       `gorm:"type:text" json:"state"`
	Phone         string       `gorm:"type:text" json:"phone"`
	Email         string       `gorm:"type:text" json:"email"`
	ContactPerson string       `gorm:"type:text" json:"contact_person"`
	IsDeleted     bool         `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Office) TableName() string { return "dental_offices" }
