package models

// OrderStatus is the lifecycle state of an order. Transitions move exactly
// one step forward; cancellation is reachable from any non-terminal state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderCompleted, OrderCancelled},
	OrderCompleted: {},
	OrderCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ItemStatus is the kitchen sub-state of a single order line. It advances
// independently of the parent order status.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemPreparing ItemStatus = "preparing"
	ItemPrepared  ItemStatus = "prepared"
	ItemServed    ItemStatus = "served"
)

var itemTransitions = map[ItemStatus]ItemStatus{
	ItemPending:   ItemPreparing,
	ItemPreparing: ItemPrepared,
	ItemPrepared:  ItemServed,
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemPreparing, ItemPrepared, ItemServed:
		return true
	}
	return false
}

func (s ItemStatus) CanTransition(to ItemStatus) bool {
	return itemTransitions[s] == to
}

// BookingStatus is the reservation lifecycle for hotel rooms and garden
// venues.
type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that hold their room's dates. A
// checked-out or cancelled booking no longer blocks new reservations.
var ActiveBookingStatuses = []BookingStatus{BookingConfirmed, BookingCheckedIn}

// PaymentStatus is always derived from the ledger, never set directly.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
)

// DerivePaymentStatus maps a ledger total onto the payment status. Paying the
// full amount (or more) completes; anything above zero is partial.
func DerivePaymentStatus(totalPaid, totalAmount float64) PaymentStatus {
	switch {
	case totalAmount-totalPaid <= 0:
		return PaymentCompleted
	case totalPaid > 0:
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// RoomStatus covers both rooms and tables; the occupancy vocabulary is the
// same for either resource.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)
