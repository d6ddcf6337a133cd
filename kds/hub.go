package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// Event types
const (
	EventOrderPlaced         = "order_placed"
	EventOrderReady          = "order_ready"
	EventOrderPaid           = "order_paid"
	EventTableUpdate         = "table_update"
	EventReservationBooked   = "reservation_booked"
	EventReservationCanceled = "reservation_cancelled"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected kitchen display clients, keyed by connection with
// the role of the session that opened it.
type Hub struct {
	clients   map[*websocket.Conn]string
	mutex     sync.Mutex
	writeWait time.Duration
}

// defaultWriteWait bounds each write; a client that misses it is dropped.
const defaultWriteWait = 2 * time.Second

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string), writeWait: defaultWriteWait}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast writes msg to every client. Clients that fail the write are
// dropped. Writes happen under the lock since a websocket connection allows
// only one concurrent writer.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("kds: marshal %s: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		err := conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			utils.ErrorLogger.WithField("role", role).Warnf("kds: dropping client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.WithField("clients", len(h.clients)).Debugf("kds: broadcast %s", msg.Event)
}
