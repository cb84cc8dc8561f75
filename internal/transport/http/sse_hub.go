package http

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/domain"
)

// Client represents a connected SSE subscriber.
type Client struct {
	send chan []byte
}

// Hub manages all active SSE subscribers. Notices are public, so every
// subscriber receives every broadcast. Single-instance model: all broadcast
// is in-process. For multi-instance: replace with Redis Pub/Sub.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates a new SSE Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a new SSE subscriber.
func (h *Hub) Register(send chan []byte) *Client {
	c := &Client{send: send}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Msg("SSE client connected")
	return c
}

// Unregister removes an SSE subscriber.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	log.Debug().Msg("SSE client disconnected")
}

// Broadcast pushes a newly published notice to every connected subscriber.
// This satisfies the application.NoticeHub interface.
func (h *Hub) Broadcast(n *domain.Notice) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg := buildSSEMessage(n)

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Client is slow/disconnected, skip
			log.Warn().Msg("SSE client send buffer full, skipping")
		}
	}
}

// ConnectedCount returns the total number of connected SSE subscribers.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// buildSSEMessage formats a notice as an SSE data frame.
func buildSSEMessage(n *domain.Notice) []byte {
	b, _ := json.Marshal(n)
	return []byte("event: notice\ndata: " + string(b) + "\n\n")
}
