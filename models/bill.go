package models

import "time"

// Bill is the financial record for a completed walk-in order (cafe/bar).
// A bill is immutable once written: its items are snapshotted from the order
// so later menu or order edits cannot change a historical bill.
type Bill struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BillNumber   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"bill_number"`
	OrderID      *uint  `gorm:"index" json:"order_id,omitempty"` // nil in billing-only mode
	BusinessUnit string `gorm:"type:varchar(20);not null;index" json:"business_unit"`

	Subtotal        float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	DiscountAmount  float64 `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	GSTPercent      float64 `gorm:"type:decimal(5,2);not null;default:0" json:"gst_percent"`
	GSTAmount       float64 `gorm:"type:decimal(12,2);not null;default:0" json:"gst_amount"`
	GrandTotal      float64 `gorm:"type:decimal(12,2);not null" json:"grand_total"`

	PaymentMethod string        `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"payment_status"`

	Items []BillItem `gorm:"foreignKey:BillID" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BillItem is a frozen copy of an order line at billing time.
type BillItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	BillID   uint    `gorm:"not null;index" json:"bill_id"`
	Bill     Bill    `gorm:"-" json:"-"`
	Name     string  `gorm:"type:varchar(100);not null" json:"name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
