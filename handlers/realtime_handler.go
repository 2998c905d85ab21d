package handlers

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"parlour-attendance/pkg/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Subscriptions interface {
	Register() *realtime.Client
	Unregister(c *realtime.Client)
}

type RealtimeHandler struct {
	hub Subscriptions
}

func NewRealtimeHandler(hub Subscriptions) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// RequireUpgrade rejects plain HTTP requests to the socket endpoint.
func (h *RealtimeHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream godoc
// @Summary Attendance update stream
// @Description WebSocket. Each punch is pushed as a text frame {"type":"punch-in"|"punch-out","employeeId":"...","timestamp":"..."}. Dashboards re-fetch /attendance/today on receipt.
// @Tags Realtime
// @Router /ws/attendance [get]
func (h *RealtimeHandler) Stream() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *RealtimeHandler) serve(conn *websocket.Conn) {
	client := h.hub.Register()
	defer h.hub.Unregister(client)

	// Dashboards never send data; the read loop only notices close frames
	// and keeps the pong deadline moving.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Dropped by the hub or server shutting down.
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
