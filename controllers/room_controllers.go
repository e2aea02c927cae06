package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/events"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

type RoomController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
}

func NewRoomController(db *gorm.DB, bookings *services.BookingService) *RoomController {
	return &RoomController{DB: db, Bookings: bookings}
}

// CreateRoom -> register a new room/venue
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req struct {
		Number       string  `json:"number" binding:"required"`
		BusinessUnit string  `json:"business_unit" binding:"required"`
		BasePrice    float64 `json:"base_price"`
		Capacity     int     `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room := models.Room{
		Number:       req.Number,
		BusinessUnit: req.BusinessUnit,
		Status:       models.RoomAvailable,
		BasePrice:    req.BasePrice,
		Capacity:     req.Capacity,
	}
	if room.Capacity <= 0 {
		room.Capacity = 2
	}

	if err := rc.DB.Create(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventRoomUpdate, Data: room})
	utils.InfoLogger.Printf("New room created: %s (%s)", room.Number, room.BusinessUnit)
	utils.RespondJSON(c, http.StatusCreated, "Room created", room)
}

// GetAllRooms -> all rooms, optionally filtered by unit/status
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	var rooms []models.Room
	q := rc.DB.Order("number")
	if unit := c.Query("business_unit"); unit != "" {
		q = q.Where("business_unit = ?", unit)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&rooms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of rooms", rooms)
}

// GetAvailableRooms -> rooms free for the requested [start, end) range
func (rc *RoomController) GetAvailableRooms(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid start date"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid end date"))
		return
	}

	var rooms []models.Room
	q := rc.DB.Where("status != ?", models.RoomMaintenance)
	if unit := c.Query("business_unit"); unit != "" {
		q = q.Where("business_unit = ?", unit)
	}
	if err := q.Find(&rooms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	available := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		conflict, err := rc.Bookings.HasConflict(room.ID, start, end)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if !conflict {
			available = append(available, room)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Available rooms", available)
}

// UpdateRoomStatus -> manual status change (cleaning done, maintenance, ...)
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid room id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	room.Status = models.RoomStatus(body.Status)
	if err := rc.DB.Save(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventRoomUpdate, Data: room})
	utils.RespondJSON(c, http.StatusOK, "Room status updated", room)
}
