package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-stockbit/internal/middleware"
	"go-stockbit/internal/ws"
)

const wsUserKey = "ws_user_id"

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Upgrade must run after RequireAuth; it pins the connection to the current
// user.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	c.Locals(wsUserKey, middleware.CurrentUser(c).ID)
	return c.Next()
}

// Serve keeps the connection registered until the client goes away. Clients
// only listen; anything they send is discarded.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(wsUserKey).(uuid.UUID)
		if !ok {
			conn.Close()
			return
		}

		client := &ws.Client{UserID: userID, Conn: conn}
		h.hub.Join(client)
		defer h.hub.Leave(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
