package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hospitality-suite/events"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

type BookingController struct {
	Service *services.BookingService
}

func NewBookingController(service *services.BookingService) *BookingController {
	return &BookingController{Service: service}
}

// CreateBooking -> reserve a room/venue; rejected with 409 on date overlap
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input services.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.CreateBooking(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventBookingUpdate, Data: booking})
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// ListBookings -> bookings of one type (hotel/garden)
func (bc *BookingController) ListBookings(c *gin.Context) {
	bookingType := models.BookingType(c.Query("type"))
	if bookingType == "" {
		bookingType = models.BookingHotel
	}

	bookings, err := bc.Service.ListBookings(bookingType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// GetBooking -> one booking with its payment ledger
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid booking id"))
		return
	}

	booking, err := bc.Service.GetBooking(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// AddPayment -> append a ledger entry and recompute the booking totals
func (bc *BookingController) AddPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid booking id"))
		return
	}

	var body struct {
		Amount float64 `json:"amount" binding:"required"`
		Method string  `json:"method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.AddPayment(uint(id), body.Amount, body.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventBookingUpdate, Data: booking})
	if booking.PaymentStatus == models.PaymentCompleted {
		events.BroadcastStaffNotification(fmt.Sprintf("Booking #%d fully paid", booking.ID))
	}
	utils.RespondJSON(c, http.StatusOK, "Payment recorded", booking)
}

// CheckIn -> confirmed booking arrives; room goes occupied
func (bc *BookingController) CheckIn(c *gin.Context) {
	bc.move(c, bc.Service.CheckIn, "Guest checked in")
}

// CheckOut -> checked-in booking leaves; room goes to cleaning
func (bc *BookingController) CheckOut(c *gin.Context) {
	bc.move(c, bc.Service.CheckOut, "Guest checked out")
}

// Cancel -> release the reservation, keep the ledger
func (bc *BookingController) Cancel(c *gin.Context) {
	bc.move(c, bc.Service.Cancel, "Booking cancelled")
}

func (bc *BookingController) move(c *gin.Context, fn func(uint) (*models.Booking, error), message string) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid booking id"))
		return
	}

	booking, err := fn(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventBookingUpdate, Data: booking})
	utils.RespondJSON(c, http.StatusOK, message, booking)
}
