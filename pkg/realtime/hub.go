package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"parlour-attendance/models"
	"parlour-attendance/pkg/logger"
)

const DefaultClientBuffer = 32

// Client is one connected subscriber. Messages are delivered in the order
// they were published; a client that falls a full buffer behind is dropped.
type Client struct {
	ID   string
	send chan []byte
}

func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub fans attendance events out to every registered client. It has no
// memory: a client only sees events published while it is registered.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	buffer  int
	log     logger.Logger
}

func NewHub(log logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Hub{
		clients: make(map[string]*Client),
		buffer:  buffer,
		log:     log,
	}
}

func (h *Hub) Register() *Client {
	c := &Client{
		ID:   uuid.NewString(),
		send: make(chan []byte, h.buffer),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Info("client %s connected (%d online)", c.ID, total)
	return c
}

// Unregister removes c and closes its message channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	if ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.log.Info("client %s disconnected (%d online)", c.ID, total)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast implements the attendance notifier. It never blocks on a slow
// client and never reports failure to the caller.
func (h *Hub) Broadcast(event models.AttendanceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode %s event: %v", event.Type, err)
		return
	}
	h.Publish(payload)
}

// Publish delivers an already encoded message to every local client.
func (h *Hub) Publish(payload []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Error("client %s is not keeping up, dropping it", c.ID)
		h.Unregister(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()
}
