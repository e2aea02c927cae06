package models

import (
	"time"
)

// OrderType distinguishes how the order reaches the guest.
type OrderType string

const (
	OrderDineIn      OrderType = "dine_in"
	OrderTakeaway    OrderType = "takeaway"
	OrderRoomService OrderType = "room_service"
)

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	BusinessUnit string      `gorm:"type:varchar(20);not null;index" json:"business_unit"`
	Type         OrderType   `gorm:"type:varchar(20);not null;default:'dine_in'" json:"type"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	GuestCount   int         `gorm:"not null;default:1" json:"guest_count"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	TableID      *uint       `gorm:"index" json:"table_id,omitempty"`
	Table        *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	BillID       *uint       `gorm:"index" json:"bill_id,omitempty"`
	IsPaid       bool        `gorm:"not null;default:false" json:"is_paid"`

	// One timestamp per status transition. CreatedAt doubles as pendingAt.
	PreparingAt *time.Time `json:"preparing_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	ServedAt    *time.Time `json:"served_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Items    []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	Timeline []OrderEvent `gorm:"foreignKey:OrderID" json:"timeline,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order    Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name     string     `gorm:"type:varchar(100);not null" json:"name"`
	Quantity int        `gorm:"not null" json:"quantity"`
	Price    float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes    string     `gorm:"type:text" json:"notes"`
	Status   ItemStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// OrderEvent is one entry in the order's audit timeline. The timeline is
// best-effort history: a failed write is logged, never rolled back into the
// status change that produced it.
type OrderEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	Actor     string    `gorm:"type:varchar(100);not null" json:"actor"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
