// Package ws pushes live progress snapshots to connected clients.
// Every committed store command produces one snapshot; the hub fans it
// out to all of that user's open connections. A student with the app
// open on two devices sees both update.
package ws

import (
	"encoding/json"
	"sync"

	"learningleague/internal/domain"
	"learningleague/internal/logger"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[c.UserID] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Push sends a snapshot message to every connection of one user. Slow
// consumers are dropped rather than blocking the caller.
func (h *Hub) Push(u *domain.User) {
	msg, err := json.Marshal(snapshotMessage{Type: "snapshot", User: u})
	if err != nil {
		logger.Error("ws: marshal snapshot", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[u.ID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws: dropping slow connection", "user_id", u.ID)
			go c.Close()
		}
	}
}

// CloseUser drops every connection of one user, used on logout.
func (h *Hub) CloseUser(userID int64) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
}

type snapshotMessage struct {
	Type string       `json:"type"`
	User *domain.User `json:"user"`
}
