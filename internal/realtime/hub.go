// Package realtime pushes event and scale changes to dashboard viewers
// over websockets. The hub is decoupled from the write path: publishers
// fire and forget, and everything works identically with no subscribers.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is one typed frame pushed to subscribers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks active dashboard connections per tenant.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*websocket.Conn]struct{}
	logger *slog.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Subscribe registers a connection for the tenant's updates.
func (h *Hub) Subscribe(churchID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[churchID] == nil {
		h.subs[churchID] = make(map[*websocket.Conn]struct{})
	}
	h.subs[churchID][conn] = struct{}{}
}

// Unsubscribe drops the connection; called when the viewing component
// unmounts or the socket errors.
func (h *Hub) Unsubscribe(churchID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[churchID], conn)
	if len(h.subs[churchID]) == 0 {
		delete(h.subs, churchID)
	}
}

// Publish sends the message to every subscriber of the tenant. Write
// failures are logged and the connection is left for its reader loop to
// reap; Publish never blocks the caller on a slow peer beyond the write.
func (h *Hub) Publish(churchID int64, msg Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[churchID]))
	for conn := range h.subs[churchID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn("realtime write failed", "church_id", churchID, "error", err.Error())
		}
	}
}

// Subscribers reports the active connection count for a tenant.
func (h *Hub) Subscribers(churchID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[churchID])
}
