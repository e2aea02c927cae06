package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hospitality-suite/config"
	"github.com/yeremiapane/hospitality-suite/models"
)

// BookingService owns reservations for the multi-day business units: the
// overlap check, booking creation and the per-booking payment ledger.
type BookingService struct {
	db        *gorm.DB
	numbering *NumberingService
	cfg       config.Config
}

func NewBookingService(db *gorm.DB, numbering *NumberingService, cfg config.Config) *BookingService {
	return &BookingService{db: db, numbering: numbering, cfg: cfg}
}

// CreateBookingInput carries a proposed reservation.
type CreateBookingInput struct {
	Type           models.BookingType `json:"type" binding:"required"`
	RoomID         *uint              `json:"room_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerMobile string             `json:"customer_mobile"`
	GuestCount     int                `json:"guest_count"`
	Notes          string             `json:"notes"`
	StartDate      time.Time          `json:"start_date" binding:"required"`
	EndDate        time.Time          `json:"end_date" binding:"required"`

	BasePrice       float64  `json:"base_price"`
	DiscountPercent float64  `json:"discount_percent"`
	GSTEnabled      bool     `json:"gst_enabled"`
	GSTPercent      *float64 `json:"gst_percent"`

	AdvancePayment float64 `json:"advance_payment"`
	PaymentMethod  string  `json:"payment_method"`
}

// HasConflict reports whether any active booking for roomID overlaps the
// half-open range [start, end). This is the advisory fast path; the locked
// re-check inside CreateBooking is the authoritative guard.
func (s *BookingService) HasConflict(roomID uint, start, end time.Time) (bool, error) {
	return hasConflict(s.db, roomID, start, end, 0)
}

func hasConflict(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBooking validates the date range, prices the stay and inserts the
// booking. The check-then-insert runs inside one transaction holding a lock
// on the room row, so two callers racing for the same room serialize; the
// losing caller sees the winner's booking in its re-check and gets
// ErrRoomConflict.
func (s *BookingService) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("booking %s to %s: %w",
			input.StartDate.Format("2006-01-02"), input.EndDate.Format("2006-01-02"), ErrInvalidDateRange)
	}

	// Fast-path rejection before touching the room lock.
	if input.RoomID != nil {
		conflict, err := s.HasConflict(*input.RoomID, input.StartDate, input.EndDate)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrRoomConflict
		}
	}

	basePrice := input.BasePrice
	discountAmount := basePrice * input.DiscountPercent / 100
	discounted := basePrice - discountAmount

	gstPercent := 0.0
	if input.GSTEnabled {
		gstPercent = s.cfg.DefaultGSTPercent
		if input.GSTPercent != nil {
			gstPercent = *input.GSTPercent
		}
	}
	gstAmount := discounted * gstPercent / 100
	totalAmount := discounted + gstAmount

	booking := models.Booking{
		Type:            input.Type,
		Status:          models.BookingConfirmed,
		RoomID:          input.RoomID,
		CustomerName:    input.CustomerName,
		CustomerMobile:  input.CustomerMobile,
		GuestCount:      input.GuestCount,
		Notes:           input.Notes,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		BasePrice:       basePrice,
		DiscountPercent: input.DiscountPercent,
		DiscountAmount:  discountAmount,
		GSTPercent:      gstPercent,
		GSTAmount:       gstAmount,
		TotalAmount:     totalAmount,
		PaymentStatus:   models.DerivePaymentStatus(0, totalAmount),
	}
	if booking.GuestCount <= 0 {
		booking.GuestCount = 1
	}

	// Advance payments are capped to the booking total at creation time; the
	// open ledger (AddPayment) is where overpayment is allowed.
	advance := input.AdvancePayment
	if advance < 0 {
		advance = 0
	}
	if advance > totalAmount {
		advance = totalAmount
	}

	// The receipt number is issued before the booking transaction opens, so
	// the counter's own locked transaction never nests inside ours. A gap is
	// left behind if the insert below fails; gaps are tolerated, duplicates
	// are not.
	var receipt string
	if advance > 0 {
		var err error
		receipt, err = s.numbering.IssueSequentialID(receiptScope(input.Type))
		if err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.RoomID != nil {
			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&room, *input.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("room %d: %w", *input.RoomID, ErrNotFound)
				}
				return err
			}
			if room.Status == models.RoomMaintenance {
				return fmt.Errorf("room %s under maintenance: %w", room.Number, ErrRoomConflict)
			}

			// Authoritative re-check under the room lock.
			conflict, err := hasConflict(tx, *input.RoomID, input.StartDate, input.EndDate, 0)
			if err != nil {
				return err
			}
			if conflict {
				return ErrRoomConflict
			}
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if advance > 0 {
			payment := models.Payment{
				ID:            uuid.NewString(),
				BookingID:     booking.ID,
				Amount:        advance,
				Method:        paymentMethod(input.PaymentMethod),
				ReceiptNumber: receipt,
				PaidAt:        time.Now(),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			booking.Payments = []models.Payment{payment}
			booking.TotalPaid = advance
			booking.RemainingBalance = totalAmount - advance
			booking.PaymentStatus = models.DerivePaymentStatus(advance, totalAmount)
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}
		} else {
			booking.RemainingBalance = totalAmount
			if err := tx.Model(&booking).Update("remaining_balance", totalAmount).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// AddPayment appends an immutable ledger entry and recomputes the booking's
// derived payment fields from the full ledger. Overpayment is allowed (the
// balance goes negative); amounts <= 0 are rejected.
func (s *BookingService) AddPayment(bookingID uint, amount float64, method string) (*models.Booking, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount %.2f: %w", amount, ErrInvalidAmount)
	}

	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, err
	}

	// Issued outside the ledger transaction; see CreateBooking.
	receipt, err := s.numbering.IssueSequentialID(receiptScope(booking.Type))
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the booking row so concurrent payments serialize and the
		// recomputed totals never lose an entry.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			return err
		}

		payment := models.Payment{
			ID:            uuid.NewString(),
			BookingID:     booking.ID,
			Amount:        amount,
			Method:        paymentMethod(method),
			ReceiptNumber: receipt,
			PaidAt:        time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		var payments []models.Payment
		if err := tx.Where("booking_id = ?", booking.ID).Order("created_at").Find(&payments).Error; err != nil {
			return err
		}

		var totalPaid float64
		for _, p := range payments {
			totalPaid += p.Amount
		}

		booking.Payments = payments
		booking.TotalPaid = totalPaid
		booking.RemainingBalance = booking.TotalAmount - totalPaid
		booking.PaymentStatus = models.DerivePaymentStatus(totalPaid, booking.TotalAmount)
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// CheckIn marks a confirmed booking as checked in and occupies its room.
func (s *BookingService) CheckIn(bookingID uint) (*models.Booking, error) {
	return s.moveBooking(bookingID, models.BookingConfirmed, models.BookingCheckedIn)
}

// CheckOut marks a checked-in booking as checked out and sends the room to
// cleaning.
func (s *BookingService) CheckOut(bookingID uint) (*models.Booking, error) {
	return s.moveBooking(bookingID, models.BookingCheckedIn, models.BookingCheckedOut)
}

// Cancel releases the reservation; the booking keeps its ledger for audit.
func (s *BookingService) Cancel(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
			}
			return err
		}
		if booking.Status == models.BookingCheckedOut || booking.Status == models.BookingCancelled {
			return fmt.Errorf("booking %d already %s: %w", bookingID, booking.Status, ErrInvalidTransition)
		}

		booking.Status = models.BookingCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		if booking.RoomID != nil {
			return freeRoom(tx, *booking.RoomID, models.RoomAvailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBooking returns one booking with its ledger.
func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Payments").Preload("Room").First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings returns bookings of one type, soonest first.
func (s *BookingService) ListBookings(bookingType models.BookingType) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Payments").
		Where("type = ?", bookingType).
		Order("start_date").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) moveBooking(bookingID uint, from, to models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
			}
			return err
		}
		if booking.Status != from {
			return fmt.Errorf("booking %d is %s, expected %s: %w", bookingID, booking.Status, from, ErrInvalidTransition)
		}

		now := time.Now()
		booking.Status = to
		switch to {
		case models.BookingCheckedIn:
			booking.CheckInAt = &now
		case models.BookingCheckedOut:
			booking.CheckOutAt = &now
		}
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		if booking.RoomID != nil {
			switch to {
			case models.BookingCheckedIn:
				return tx.Model(&models.Room{}).
					Where("id = ?", *booking.RoomID).
					Updates(map[string]interface{}{
						"status":            models.RoomOccupied,
						"active_booking_id": booking.ID,
					}).Error
			case models.BookingCheckedOut:
				return freeRoom(tx, *booking.RoomID, models.RoomCleaning)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func freeRoom(tx *gorm.DB, roomID uint, status models.RoomStatus) error {
	return tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"status":            status,
			"active_booking_id": nil,
		}).Error
}

func receiptScope(t models.BookingType) NumberScope {
	if t == models.BookingGarden {
		return ScopeGarden
	}
	return ScopeHotel
}

func paymentMethod(method string) string {
	if method == "" {
		return "cash"
	}
	return method
}
