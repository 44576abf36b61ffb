// Package realtime fans live-update events out to websocket subscribers.
package realtime

import (
	"context"
	"sync"
	"time"

	"oxypace/oxypace/utils/logging"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type client struct {
	userID uuid.UUID
	send   chan Event
}

// Hub keeps one buffered channel per connected client. A client whose buffer
// is full is disconnected rather than blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish broadcasts an event to every connected client.
func (h *Hub) Publish(eventType string, payload any) {
	h.dispatch(Event{Type: eventType, Payload: payload}, nil)
}

// PublishTo delivers an event only to connections owned by the given users.
func (h *Hub) PublishTo(eventType string, payload any, users ...uuid.UUID) {
	if len(users) == 0 {
		return
	}
	targets := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		targets[u] = true
	}
	h.dispatch(Event{Type: eventType, Payload: payload}, targets)
}

func (h *Hub) dispatch(evt Event, targets map[uuid.UUID]bool) {
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if targets != nil && !targets[c.userID] {
			continue
		}
		select {
		case c.send <- evt:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logging.AppLogger.Warn("dropping slow realtime client", zap.String("user_id", c.userID.String()))
		h.unregister(c)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(userID uuid.UUID) *client {
	c := &client{userID: userID, send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Serve pumps events to conn until the peer goes away, ctx ends or the client is dropped.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID uuid.UUID) {
	c := h.register(userID)
	defer h.unregister(c)

	// Subscribers only listen; CloseRead handles control frames and cancels on close.
	ctx = conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case evt, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "too slow")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, evt)
			cancel()
			if err != nil {
				logging.ErrorLogger.Error("websocket write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
