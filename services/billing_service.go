package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hospitality-suite/cache"
	"github.com/yeremiapane/hospitality-suite/config"
	"github.com/yeremiapane/hospitality-suite/events"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/utils"
)

// BillingService creates immutable bills for walk-in commerce and owns the
// cross-store delete orchestration: the same logical sale can exist as a
// booking, a bill, or (through legacy write paths) both, and deletion has to
// clean up whichever stores hold it.
type BillingService struct {
	db        *gorm.DB
	numbering *NumberingService
	stats     *cache.StatsCache
	cfg       config.Config
}

func NewBillingService(db *gorm.DB, numbering *NumberingService, stats *cache.StatsCache, cfg config.Config) *BillingService {
	return &BillingService{db: db, numbering: numbering, stats: stats, cfg: cfg}
}

// BillItemInput is one line on a billing-only bill.
type BillItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
}

// CreateBillInput bills an existing order (OrderID set) or runs in
// billing-only mode with ad-hoc items.
type CreateBillInput struct {
	OrderID      *uint           `json:"order_id"`
	BusinessUnit string          `json:"business_unit" binding:"required"`
	Items        []BillItemInput `json:"items"`

	DiscountPercent float64  `json:"discount_percent"`
	GSTEnabled      bool     `json:"gst_enabled"`
	GSTPercent      *float64 `json:"gst_percent"`
	PaymentMethod   string   `json:"payment_method"`
}

// DeleteResult is the single coherent outcome of a cross-store delete.
type DeleteResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	BookingRemoved bool   `json:"booking_removed"`
	BillRemoved    bool   `json:"bill_removed"`
}

// RevenueSummary aggregates bills and booking payments over a period.
type RevenueSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// CreateBill issues a bill number, snapshots the line items and completes the
// billed order. The snapshot decouples the bill from the live order so a
// historical bill never changes when the order or menu does.
func (s *BillingService) CreateBill(input CreateBillInput) (*models.Bill, error) {
	billNumber, err := s.numbering.IssueSequentialID(ScopeBill)
	if err != nil {
		return nil, err
	}

	bill := models.Bill{
		BillNumber:      billNumber,
		OrderID:         input.OrderID,
		BusinessUnit:    input.BusinessUnit,
		DiscountPercent: input.DiscountPercent,
		PaymentMethod:   paymentMethod(input.PaymentMethod),
		PaymentStatus:   models.PaymentCompleted,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		var items []models.BillItem

		if input.OrderID != nil {
			var order models.Order
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Items").
				First(&order, *input.OrderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("order %d: %w", *input.OrderID, ErrNotFound)
				}
				return err
			}
			if order.BillID != nil {
				return fmt.Errorf("order %d already billed: %w", order.ID, ErrInvalidTransition)
			}
			if order.Status.Terminal() {
				return fmt.Errorf("order %d is %s: %w", order.ID, order.Status, ErrInvalidTransition)
			}

			for _, it := range order.Items {
				line := float64(it.Quantity) * it.Price
				subtotal += line
				items = append(items, models.BillItem{
					Name:     it.Name,
					Quantity: it.Quantity,
					Price:    it.Price,
					Subtotal: line,
				})
			}

			bill.Subtotal = subtotal
			s.price(&bill, input)
			bill.Items = items
			if err := tx.Create(&bill).Error; err != nil {
				return err
			}

			// Billing completes the order regardless of how far the kitchen
			// got; the completion timestamp is the billing moment.
			now := time.Now()
			order.Status = models.OrderCompleted
			order.CompletedAt = &now
			order.BillID = &bill.ID
			order.IsPaid = true
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			if order.TableID != nil {
				return releaseTable(tx, *order.TableID)
			}
			return nil
		}

		// Billing-only mode: no live order behind the bill.
		for _, it := range input.Items {
			line := float64(it.Quantity) * it.Price
			subtotal += line
			items = append(items, models.BillItem{
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    it.Price,
				Subtotal: line,
			})
		}
		bill.Subtotal = subtotal
		s.price(&bill, input)
		bill.Items = items
		return tx.Create(&bill).Error
	})
	if err != nil {
		return nil, err
	}

	events.Broadcast(events.Message{Event: events.EventBillingUpdate, Data: bill})
	s.stats.InvalidateRevenue(context.Background())
	return &bill, nil
}

// GetBill returns one bill with its item snapshot.
func (s *BillingService) GetBill(billID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.Preload("Items").First(&bill, billID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// ListBills returns bills, optionally filtered by business unit, newest first.
func (s *BillingService) ListBills(businessUnit string) ([]models.Bill, error) {
	var bills []models.Bill
	q := s.db.Preload("Items").Order("created_at DESC")
	if businessUnit != "" {
		q = q.Where("business_unit = ?", businessUnit)
	}
	err := q.Find(&bills).Error
	return bills, err
}

// DeleteTransaction removes a logical sale that may be materialized in the
// booking store, the bill store, or both. The specialized booking delete runs
// first for hotel/garden units, then a generic bill cleanup always follows;
// "not found" in one store is not a failure as long as the other removed a
// row. A real storage error aborts and is surfaced together with whatever
// partial cleanup already happened, so operators can hunt down the orphan.
func (s *BillingService) DeleteTransaction(id uint, password, businessUnit, role string) (*DeleteResult, error) {
	if err := s.authorizeDeletion(password, role); err != nil {
		return nil, err
	}

	// Audit fetch before anything destructive.
	var booking models.Booking
	bookingExists := true
	if err := s.db.First(&booking, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		bookingExists = false
	}
	var bill models.Bill
	billExists := true
	if err := s.db.First(&bill, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		billExists = false
	}
	if !bookingExists && !billExists {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if bookingExists {
		utils.InfoLogger.Printf("delete transaction %d: booking %s/%s total=%.2f (by %s)",
			id, booking.Type, booking.Status, booking.TotalAmount, role)
	}
	if billExists {
		utils.InfoLogger.Printf("delete transaction %d: bill %s total=%.2f (by %s)",
			id, bill.BillNumber, bill.GrandTotal, role)
	}

	result := &DeleteResult{}

	// Step 1: specialized delete against the booking store.
	if businessUnit == "hotel" || businessUnit == "garden" {
		removed, err := s.deleteBookingRecord(id)
		if err != nil {
			// Constraint violations and storage errors are fatal; do not keep
			// deleting from the other store under them.
			return result, fmt.Errorf("booking store delete failed (bill untouched): %w", err)
		}
		result.BookingRemoved = removed
	}

	// Step 2: generic cleanup against the bill store, attempted regardless of
	// whether the booking store had the record. The item snapshot goes with
	// the bill; the drivers don't enforce cascades for us.
	billRemoved := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Bill{}, id)
		if res.Error != nil {
			return res.Error
		}
		billRemoved = res.RowsAffected > 0
		if billRemoved {
			return tx.Where("bill_id = ?", id).Delete(&models.BillItem{}).Error
		}
		return nil
	})
	if err != nil {
		if result.BookingRemoved {
			return result, fmt.Errorf("bill store delete failed after booking %d was removed, manual review required: %w", id, err)
		}
		return result, fmt.Errorf("bill store delete failed: %w", err)
	}
	result.BillRemoved = billRemoved

	if !result.BookingRemoved && !result.BillRemoved {
		return result, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}

	result.Success = true
	result.Message = fmt.Sprintf("transaction %d deleted", id)

	// Refresh the aggregated views that span both stores.
	s.stats.InvalidateRevenue(context.Background())
	events.Broadcast(events.Message{
		Event: events.EventBillingUpdate,
		Data:  map[string]interface{}{"deleted_id": id, "business_unit": businessUnit},
	})
	return result, nil
}

// GetRevenueSummary totals bill grand totals plus booking ledger payments in
// [from, to), optionally scoped to one business unit. Served from the stats
// cache when redis is configured.
func (s *BillingService) GetRevenueSummary(businessUnit string, from, to time.Time) (*RevenueSummary, error) {
	ctx := context.Background()
	key := fmt.Sprintf("%s:%d:%d", businessUnit, from.Unix(), to.Unix())

	var summary RevenueSummary
	if s.stats.GetRevenue(ctx, key, &summary) {
		return &summary, nil
	}

	q := s.db.Model(&models.Bill{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	if businessUnit != "" {
		q = q.Where("business_unit = ?", businessUnit)
	}
	var bills []models.Bill
	if err := q.Find(&bills).Error; err != nil {
		return nil, err
	}
	for _, b := range bills {
		summary.Total += b.GrandTotal
		summary.Count++
	}

	// Bookings are not stored as bills, but the revenue view has to present
	// their ledger payments alongside them.
	if businessUnit == "" || businessUnit == "hotel" || businessUnit == "garden" {
		pq := s.db.Model(&models.Payment{}).
			Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("payments.paid_at >= ? AND payments.paid_at < ?", from, to)
		if businessUnit != "" {
			pq = pq.Where("bookings.type = ?", businessUnit)
		}
		var payments []models.Payment
		if err := pq.Find(&payments).Error; err != nil {
			return nil, err
		}
		for _, p := range payments {
			summary.Total += p.Amount
			summary.Count++
		}
	}

	s.stats.SetRevenue(ctx, key, summary)
	return &summary, nil
}

func (s *BillingService) authorizeDeletion(password, role string) error {
	if !s.cfg.EnablePasswordProtection {
		return nil
	}
	if role != "admin" {
		return fmt.Errorf("deletion requires admin role: %w", ErrUnauthorized)
	}
	if s.cfg.AdminDeletionPassword == "" {
		return ErrConfigMissing
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminDeletionPassword)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// deleteBookingRecord removes a booking with its payment ledger and clears
// the room back-reference. Returns whether a row was actually removed.
func (s *BillingService) deleteBookingRecord(id uint) (bool, error) {
	removed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		// Ledger entries go with their booking. The declared cascade is not
		// enforced on every driver, so the children are deleted explicitly.
		if err := tx.Where("booking_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Booking{}, id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0

		if removed && booking.RoomID != nil {
			if err := freeRoom(tx, *booking.RoomID, models.RoomAvailable); err != nil {
				return err
			}
		}
		return nil
	})
	return removed, err
}

func (s *BillingService) price(bill *models.Bill, input CreateBillInput) {
	bill.DiscountAmount = bill.Subtotal * input.DiscountPercent / 100
	discounted := bill.Subtotal - bill.DiscountAmount

	if input.GSTEnabled {
		bill.GSTPercent = s.cfg.DefaultGSTPercent
		if input.GSTPercent != nil {
			bill.GSTPercent = *input.GSTPercent
		}
	}
	bill.GSTAmount = discounted * bill.GSTPercent / 100
	bill.GrandTotal = discounted + bill.GSTAmount
}
