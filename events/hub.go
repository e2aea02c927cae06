package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types
const (
	EventOrderUpdate   = "order_update"
	EventBookingUpdate = "booking_update"
	EventBillingUpdate = "billing_update"
	EventTableUpdate   = "table_update"
	EventRoomUpdate    = "room_update"
	EventStaffNotif    = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected back-office client (waiter, kitchen, admin) and
// broadcasts entity updates so their cached views refresh without polling.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the set with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// Broadcast sends a message to every connected client.
func Broadcast(msg Message) {
	broadcast(msg, "")
}

// BroadcastToRole sends a message only to clients registered with role.
func BroadcastToRole(role string, msg Message) {
	broadcast(msg, role)
}

// BroadcastStaffNotification pushes a plain-text notice to staff clients.
func BroadcastStaffNotification(text string) {
	BroadcastToRole("staff", Message{
		Event: EventStaffNotif,
		Data:  map[string]string{"message": text},
	})
}

func broadcast(msg Message, role string) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal %s: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn, connRole := range hub.clients {
		if role != "" && connRole != role {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Dead connection; drop it and move on.
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
