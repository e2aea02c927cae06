package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/utils"
)

// OrderService drives orders (and their line items) through the preparation
// state machine. The status field is authoritative; the timeline is a
// best-effort audit trail.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemInput is one requested line on a new order.
type OrderItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

// CreateOrderInput carries everything needed to open an order.
type CreateOrderInput struct {
	BusinessUnit string           `json:"business_unit" binding:"required"`
	Type         models.OrderType `json:"type"`
	GuestCount   int              `json:"guest_count"`
	TableID      *uint            `json:"table_id"`
	Items        []OrderItemInput `json:"items" binding:"required"`
}

// CreateOrder opens a pending order, totals its items and occupies the table
// when one is attached.
func (s *OrderService) CreateOrder(input CreateOrderInput, actor string) (*models.Order, error) {
	if input.Type == "" {
		input.Type = models.OrderDineIn
	}
	if input.GuestCount <= 0 {
		input.GuestCount = 1
	}

	var total float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			continue
		}
		total += float64(it.Quantity) * it.Price
		items = append(items, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Notes:    it.Notes,
			Status:   models.ItemPending,
		})
	}

	order := models.Order{
		BusinessUnit: input.BusinessUnit,
		Type:         input.Type,
		Status:       models.OrderPending,
		GuestCount:   input.GuestCount,
		TotalAmount:  total,
		TableID:      input.TableID,
		Items:        items,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if input.TableID != nil {
			res := tx.Model(&models.Table{}).
				Where("id = ?", *input.TableID).
				Updates(map[string]interface{}{
					"status":          models.RoomOccupied,
					"active_order_id": order.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("table %d: %w", *input.TableID, ErrNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appendTimeline(order.ID, string(models.OrderPending), actor, "order created")
	return &order, nil
}

// Transition advances an order to newStatus for the given actor. Invalid
// moves fail with ErrInvalidTransition; valid ones stamp the matching
// timestamp field and append a timeline entry. Completing or cancelling an
// order releases its table.
func (s *OrderService) Transition(orderID uint, newStatus models.OrderStatus, actor string) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidTransition)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent transitions on the same order.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
			}
			return err
		}

		if !order.Status.CanTransition(newStatus) {
			return fmt.Errorf("%s -> %s: %w", order.Status, newStatus, ErrInvalidTransition)
		}

		now := time.Now()
		order.Status = newStatus
		stampStatusTime(&order, newStatus, now)

		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if (newStatus == models.OrderCompleted || newStatus == models.OrderCancelled) && order.TableID != nil {
			if err := releaseTable(tx, *order.TableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appendTimeline(order.ID, string(newStatus), actor, fmt.Sprintf("order %s", newStatus))
	return &order, nil
}

// TransitionItem moves a single line item through its kitchen sub-states,
// independently of the parent order status.
func (s *OrderService) TransitionItem(itemID uint, newStatus models.ItemStatus, actor string) (*models.OrderItem, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("item status %q: %w", newStatus, ErrInvalidTransition)
	}

	var item models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
			}
			return err
		}

		if !item.Status.CanTransition(newStatus) {
			return fmt.Errorf("item %s -> %s: %w", item.Status, newStatus, ErrInvalidTransition)
		}

		item.Status = newStatus
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	s.appendTimeline(item.OrderID, string(newStatus), actor, fmt.Sprintf("item #%d %s", item.ID, newStatus))
	return &item, nil
}

// GetOrder returns one order with its items and timeline.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Timeline").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// appendTimeline records an audit entry. Failures are logged and swallowed:
// the status write has already committed and stays authoritative.
func (s *OrderService) appendTimeline(orderID uint, status, actor, message string) {
	event := models.OrderEvent{
		OrderID: orderID,
		Status:  status,
		Actor:   actor,
		Message: message,
	}
	if err := s.db.Create(&event).Error; err != nil {
		utils.ErrorLogger.Printf("order %d: timeline write failed (%s by %s): %v", orderID, status, actor, err)
	}
}

func stampStatusTime(order *models.Order, status models.OrderStatus, now time.Time) {
	switch status {
	case models.OrderPreparing:
		order.PreparingAt = &now
	case models.OrderReady:
		order.ReadyAt = &now
	case models.OrderServed:
		order.ServedAt = &now
	case models.OrderCompleted:
		order.CompletedAt = &now
	case models.OrderCancelled:
		order.CancelledAt = &now
	}
}

func releaseTable(tx *gorm.DB, tableID uint) error {
	return tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Updates(map[string]interface{}{
			"status":          models.RoomAvailable,
			"active_order_id": nil,
		}).Error
}
