package models

import "time"

type Table struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TableNumber string     `gorm:"type:varchar(50);not null" json:"table_number"`
	Status      RoomStatus `gorm:"type:varchar(50);not null;default:'available'" json:"status"`

	// Back-reference to the order currently occupying the table, if any.
	ActiveOrderID *uint `gorm:"index" json:"active_order_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
