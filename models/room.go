package models

import "time"

// Room is a bookable physical resource: a hotel room or a garden venue.
type Room struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Number       string     `gorm:"type:varchar(50);not null" json:"number"`
	BusinessUnit string     `gorm:"type:varchar(20);not null;index" json:"business_unit"`
	Status       RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	BasePrice    float64    `gorm:"type:decimal(12,2);not null;default:0" json:"base_price"`
	Capacity     int        `gorm:"not null;default:2" json:"capacity"`

	// Back-reference to the booking currently occupying the room, if any.
	ActiveBookingID *uint `gorm:"index" json:"active_booking_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
