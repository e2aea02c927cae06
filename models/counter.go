package models

import "time"

// Counter backs the numbering service. One row per (scope, day), keyed by
// "<scope>-<YYYYMMDD>". The unique index is what makes creation races lose
// cleanly instead of producing duplicate sequences.
type Counter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Value     int       `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
