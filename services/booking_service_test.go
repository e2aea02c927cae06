package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/models"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func seedRoom(t *testing.T, db *gorm.DB, number string) *models.Room {
	t.Helper()
	room := models.Room{Number: number, BusinessUnit: "hotel", Status: models.RoomAvailable, BasePrice: 1500}
	require.NoError(t, db.Create(&room).Error)
	return &room
}

func newBookingService(t *testing.T, db *gorm.DB) *BookingService {
	t.Helper()
	return NewBookingService(db, NewNumberingService(db), testConfig())
}

func hotelBooking(roomID uint, start, end time.Time, base float64) CreateBookingInput {
	return CreateBookingInput{
		Type:           models.BookingHotel,
		RoomID:         &roomID,
		CustomerName:   "Guest",
		CustomerMobile: "9000000001",
		StartDate:      start,
		EndDate:        end,
		BasePrice:      base,
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "101")

	_, err := svc.CreateBooking(hotelBooking(room.ID, day(10), day(15), 3000))
	require.NoError(t, err)

	// Contained range conflicts.
	_, err = svc.CreateBooking(hotelBooking(room.ID, day(12), day(13), 1000))
	assert.ErrorIs(t, err, ErrRoomConflict)

	// Touching at the boundary does not: [10,15) then [15,18).
	_, err = svc.CreateBooking(hotelBooking(room.ID, day(15), day(18), 2000))
	assert.NoError(t, err)

	// Ending exactly at an existing start does not either: [8,10).
	_, err = svc.CreateBooking(hotelBooking(room.ID, day(8), day(10), 1500))
	assert.NoError(t, err)
}

func TestCreateBookingIgnoresInactiveBookings(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "102")

	first, err := svc.CreateBooking(hotelBooking(room.ID, day(10), day(15), 3000))
	require.NoError(t, err)

	_, err = svc.Cancel(first.ID)
	require.NoError(t, err)

	// The cancelled booking no longer blocks the range.
	_, err = svc.CreateBooking(hotelBooking(room.ID, day(10), day(15), 3000))
	assert.NoError(t, err)
}

func TestCreateBookingOtherRoomUnaffected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	roomA := seedRoom(t, db, "103")
	roomB := seedRoom(t, db, "104")

	_, err := svc.CreateBooking(hotelBooking(roomA.ID, day(10), day(15), 3000))
	require.NoError(t, err)

	_, err = svc.CreateBooking(hotelBooking(roomB.ID, day(10), day(15), 3000))
	assert.NoError(t, err)
}

func TestCreateBookingInvalidRange(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "105")

	_, err := svc.CreateBooking(hotelBooking(room.ID, day(15), day(15), 1000))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = svc.CreateBooking(hotelBooking(room.ID, day(15), day(12), 1000))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBookingPricing(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "106")

	input := hotelBooking(room.ID, day(1), day(3), 1000)
	input.DiscountPercent = 10
	input.GSTEnabled = true // default 18% from config

	booking, err := svc.CreateBooking(input)
	require.NoError(t, err)

	assert.Equal(t, 100.0, booking.DiscountAmount)
	assert.Equal(t, 18.0, booking.GSTPercent)
	assert.InDelta(t, 162.0, booking.GSTAmount, 0.001)
	assert.InDelta(t, 1062.0, booking.TotalAmount, 0.001)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.InDelta(t, 1062.0, booking.RemainingBalance, 0.001)
}

func TestZeroTotalBookingIsSettledImmediately(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "114")

	// A complimentary stay owes nothing; the derived status says so from the
	// moment the booking exists.
	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(1), day(2), 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, booking.TotalAmount)
	assert.Equal(t, 0.0, booking.RemainingBalance)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)
}

func TestCreateBookingWithAdvancePayment(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "107")

	input := hotelBooking(room.ID, day(1), day(3), 3000)
	input.AdvancePayment = 1000

	booking, err := svc.CreateBooking(input)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, booking.TotalPaid)
	assert.Equal(t, 2000.0, booking.RemainingBalance)
	assert.Equal(t, models.PaymentPartial, booking.PaymentStatus)
	require.Len(t, booking.Payments, 1)
	assert.True(t, strings.HasPrefix(booking.Payments[0].ReceiptNumber, "HT-"))
}

func TestAddPaymentLedgerInvariant(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "108")

	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(1), day(3), 3000))
	require.NoError(t, err)

	booking, err = svc.AddPayment(booking.ID, 1000, "cash")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, booking.TotalPaid)
	assert.Equal(t, 2000.0, booking.RemainingBalance)
	assert.Equal(t, models.PaymentPartial, booking.PaymentStatus)

	booking, err = svc.AddPayment(booking.ID, 2000, "card")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, booking.TotalPaid)
	assert.Equal(t, 0.0, booking.RemainingBalance)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)

	// The ledger always sums to totalPaid.
	var payments []models.Payment
	require.NoError(t, db.Where("booking_id = ?", booking.ID).Find(&payments).Error)
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	assert.Equal(t, booking.TotalPaid, sum)
}

func TestAddPaymentAllowsOverpayment(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "109")

	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(1), day(3), 1000))
	require.NoError(t, err)

	booking, err = svc.AddPayment(booking.ID, 1500, "cash")
	require.NoError(t, err)
	assert.Equal(t, -500.0, booking.RemainingBalance)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)
}

func TestAddPaymentRejectsNonPositiveAmounts(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "110")

	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(1), day(3), 1000))
	require.NoError(t, err)

	_, err = svc.AddPayment(booking.ID, 0, "cash")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.AddPayment(booking.ID, -50, "cash")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.AddPayment(9999, 100, "cash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGardenReceiptsUseGardenScope(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		Type:      models.BookingGarden,
		StartDate: day(20),
		EndDate:   day(21),
		BasePrice: 50000,
	})
	require.NoError(t, err)

	booking, err = svc.AddPayment(booking.ID, 10000, "upi")
	require.NoError(t, err)
	require.Len(t, booking.Payments, 1)
	assert.True(t, strings.HasPrefix(booking.Payments[0].ReceiptNumber, "GD-"))
}

func TestCheckInCheckOutFlow(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "111")

	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(1), day(3), 3000))
	require.NoError(t, err)

	booking, err = svc.CheckIn(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCheckedIn, booking.Status)
	assert.NotNil(t, booking.CheckInAt)

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomOccupied, got.Status)
	require.NotNil(t, got.ActiveBookingID)

	// Checking in twice is invalid.
	_, err = svc.CheckIn(booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	booking, err = svc.CheckOut(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCheckedOut, booking.Status)
	assert.NotNil(t, booking.CheckOutAt)

	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomCleaning, got.Status)
	assert.Nil(t, got.ActiveBookingID)
}

func TestCheckedInBookingStillBlocksOverlap(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "112")

	booking, err := svc.CreateBooking(hotelBooking(room.ID, day(10), day(15), 3000))
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(hotelBooking(room.ID, day(14), day(16), 1000))
	assert.ErrorIs(t, err, ErrRoomConflict)
}

func TestHasConflictHalfOpenInterval(t *testing.T) {
	db := setupServiceDB(t)
	svc := newBookingService(t, db)
	room := seedRoom(t, db, "113")

	_, err := svc.CreateBooking(hotelBooking(room.ID, day(10), day(15), 3000))
	require.NoError(t, err)

	cases := []struct {
		start, end time.Time
		want       bool
	}{
		{day(12), day(13), true},  // contained
		{day(8), day(11), true},   // overlaps start
		{day(14), day(20), true},  // overlaps end
		{day(8), day(20), true},   // covers
		{day(15), day(18), false}, // touches end
		{day(8), day(10), false},  // touches start
		{day(20), day(22), false}, // disjoint
	}
	for _, tc := range cases {
		got, err := svc.HasConflict(room.ID, tc.start, tc.end)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "[%v, %v)", tc.start, tc.end)
	}
}
