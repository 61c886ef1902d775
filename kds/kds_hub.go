package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/waffle-wala/utils"
)

// Event types
const (
	EventOrderUpdate      = "order_update"
	EventOrderDelete      = "order_delete"
	EventStockUpdate      = "stock_update"
	EventSettingsUpdate   = "settings_update"
	EventSuggestionUpdate = "suggestion_update"
	EventTrackingUpdate   = "tracking_update"
)

// Topics a client can subscribe to. Single documents use their path,
// e.g. "orders/3f1c...".
const (
	TopicOrders      = "orders"
	TopicInventory   = "inventory"
	TopicSettings    = "settings"
	TopicSuggestions = "suggestions"
)

type Message struct {
	Event string      `json:"event"`
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	role   string
	topics map[string]bool
}

// Hub menampung semua client websocket (customer, admin) dan topik yang mereka ikuti
type Hub struct {
	clients map[Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client)}
}

// Register -> menambahkan connection dengan role dan topik
func (h *Hub) Register(conn Conn, role string, topics ...string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	c := &client{role: role, topics: make(map[string]bool)}
	for _, t := range topics {
		c.topics[t] = true
	}
	h.clients[conn] = c
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish sends msg to every client subscribed to topic.
func (h *Hub) Publish(topic string, msg Message) {
	msg.Topic = topic
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for conn, c := range h.clients {
		if !c.topics[topic] {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to %s client: %v", msg.Event, c.role, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		utils.InfoLogger.Debugf("Broadcast %s on %s to %d clients", msg.Event, topic, sent)
	}
}

// Send writes msg to one registered connection.
func (h *Hub) Send(conn Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}
