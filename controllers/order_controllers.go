package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/events"
	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

type OrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB, service *services.OrderService) *OrderController {
	return &OrderController{DB: db, Service: service}
}

// GetAllOrders -> list orders with their items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	q := oc.DB.Preload("Items")
	if unit := c.Query("business_unit"); unit != "" {
		q = q.Where("business_unit = ?", unit)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> open a new order (status='pending')
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.CreateOrder(input, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventOrderUpdate, Data: order})
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> one order with items and timeline
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order id"))
		return
	}

	order, err := oc.Service.GetOrder(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// TransitionOrder -> advance the order status (pending/preparing/ready/served/completed/cancelled)
func (oc *OrderController) TransitionOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Transition(uint(id), models.OrderStatus(body.Status), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventOrderUpdate, Data: order})
	if order.Status == models.OrderReady {
		events.BroadcastStaffNotification(fmt.Sprintf("Order #%d ready to serve", order.ID))
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// TransitionItem -> kitchen advances a single line item
func (oc *OrderController) TransitionItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid item id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := oc.Service.TransitionItem(uint(id), models.ItemStatus(body.Status), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.Broadcast(events.Message{Event: events.EventOrderUpdate, Data: item})
	utils.RespondJSON(c, http.StatusOK, "Item updated", item)
}
