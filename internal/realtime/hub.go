package realtime

import (
	"encoding/json"
	"log"
	"time"

	"cafepos-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Event is the envelope every broadcast uses. There is no delivery
// guarantee: events are advisory, clients refetch on reconnect.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	TS      time.Time   `json:"ts"`
}

// conn is the subset of *websocket.Conn the hub needs. Tests register
// in-memory fakes through it.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fan-outs events to all connected POS clients. It is constructed in
// main and handed to the handlers that need it, so the initialization
// order is visible in the wiring instead of hidden behind a global getter.
type Hub struct {
	register   chan conn
	unregister chan conn
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan conn),
		unregister: make(chan conn),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set; nothing outside this loop touches it.
func (h *Hub) Run() {
	clients := make(map[conn]bool)
	for {
		select {
		case c := <-h.register:
			clients[c] = true
			metrics.WSConnections.Inc()
		case c := <-h.unregister:
			if clients[c] {
				delete(clients, c)
				metrics.WSConnections.Dec()
			}
		case msg := <-h.broadcast:
			for c := range clients {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					// Dead or too slow; drop it rather than block the loop.
					delete(clients, c)
					c.Close()
					metrics.WSConnections.Dec()
				}
			}
		}
	}
}

// Broadcast is fire-and-forget. If the hub buffer is full the event is
// dropped; request handlers must never block on the socket layer.
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg, err := json.Marshal(Event{Event: event, Payload: payload, TS: time.Now()})
	if err != nil {
		log.Println("realtime: could not marshal event:", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Println("realtime: broadcast buffer full, dropping", event)
	}
}

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and parks it in the hub until the
// client goes away. Incoming frames are discarded; the channel is
// server-to-client only.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		log.Println("realtime: client connected:", c.RemoteAddr())
		h.register <- c
		defer func() {
			h.unregister <- c
			c.Close()
			log.Println("realtime: client disconnected:", c.RemoteAddr())
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
