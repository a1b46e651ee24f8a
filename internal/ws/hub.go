package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"go-stockbit/pkg/logger"
)

const deliveryBuffer = 256

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one open connection of a signed-in user.
type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

// Message is the JSON frame pushed to clients.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type delivery struct {
	userID  uuid.UUID
	payload []byte
}

// Hub fans events out to the connections of the user they belong to. A user
// never receives another user's events.
type Hub struct {
	clients    map[uuid.UUID]map[Conn]bool
	Register   chan *Client
	Unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	log        *slog.Logger
	mutex      sync.Mutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[Conn]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan delivery, deliveryBuffer),
		done:       make(chan struct{}),
		log:        log.With(slog.String("component", "ws.Hub")),
	}
}

// Run serves registrations and deliveries until ctx is done, then closes
// every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case c := <-h.Register:
			h.mutex.Lock()
			conns, ok := h.clients[c.UserID]
			if !ok {
				conns = make(map[Conn]bool)
				h.clients[c.UserID] = conns
			}
			conns[c.Conn] = true
			h.mutex.Unlock()
			h.log.Debug("client connected", slog.String("user_id", c.UserID.String()))

		case c := <-h.Unregister:
			h.mutex.Lock()
			h.drop(c.UserID, c.Conn)
			h.mutex.Unlock()

		case d := <-h.deliver:
			h.mutex.Lock()
			for conn := range h.clients[d.userID] {
				if err := conn.WriteMessage(websocket.TextMessage, d.payload); err != nil {
					h.log.Debug("write failed, dropping client", logger.Err(err))
					h.drop(d.userID, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Join registers c. Once the hub has stopped the connection is closed
// instead.
func (h *Hub) Join(c *Client) {
	select {
	case h.Register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

// Leave unregisters c. It returns immediately when the hub has stopped.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(userID uuid.UUID, conn Conn) {
	conns, ok := h.clients[userID]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	conn.Close()
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, userID)
	}
}

// Publish queues an event for userID. It never blocks: when the queue is
// full the event is dropped.
func (h *Hub) Publish(userID uuid.UUID, eventType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: eventType, Data: data, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("marshal event", slog.String("type", eventType), logger.Err(err))
		return
	}

	select {
	case h.deliver <- delivery{userID: userID, payload: payload}:
	default:
		h.log.Warn("event queue full, dropping event", slog.String("type", eventType))
	}
}

// ClientCount reports how many connections userID has open.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID])
}
