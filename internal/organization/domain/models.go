package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is the tenant boundary. Every portfolio record, import job
// and playbook hangs off an org id.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Slug      string       `gorm:"not null;uniqueIndex" json:"slug"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}
