package models

import "time"

// BookingType distinguishes the multi-day business units.
type BookingType string

const (
	BookingHotel  BookingType = "hotel"
	BookingGarden BookingType = "garden"
)

// Booking is the financial + reservation record for hotel rooms and garden
// venues. It carries its own payment ledger; TotalPaid, RemainingBalance and
// PaymentStatus are always recomputed from the ledger, never written directly.
type Booking struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	Type   BookingType   `gorm:"type:varchar(10);not null;index" json:"type"`
	Status BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`

	RoomID *uint `gorm:"index" json:"room_id,omitempty"`
	Room   *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	CustomerName   string `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerMobile string `gorm:"type:varchar(20);index" json:"customer_mobile"`
	GuestCount     int    `gorm:"not null;default:1" json:"guest_count"`
	Notes          string `gorm:"type:text" json:"notes"`

	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`

	BasePrice       float64 `gorm:"type:decimal(12,2);not null" json:"base_price"`
	DiscountPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	DiscountAmount  float64 `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	GSTPercent      float64 `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`
	GSTAmount       float64 `gorm:"type:decimal(12,2);not null;default:0" json:"gst_amount"`
	TotalAmount     float64 `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	Payments         []Payment     `gorm:"foreignKey:BookingID" json:"payments"`
	TotalPaid        float64       `gorm:"type:decimal(12,2);not null;default:0" json:"total_paid"`
	RemainingBalance float64       `gorm:"type:decimal(12,2);not null;default:0" json:"remaining_balance"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	CheckInAt  *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Payment is one immutable ledger entry inside a booking. Entries are only
// ever appended; the booking totals are derived from the full set.
type Payment struct {
	ID            string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	BookingID     uint        `gorm:"not null;index" json:"booking_id"`
	Booking       Booking     `gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Amount        float64     `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        string      `gorm:"type:varchar(20);not null;default:'cash'" json:"method"`
	ReceiptNumber string      `gorm:"type:varchar(50);not null" json:"receipt_number"`
	PaidAt        time.Time   `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}
