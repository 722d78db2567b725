package server

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}

	// pending holds the newest unsent state; notify wakes Run.
	pendingMu sync.Mutex
	pending   *stateResponse
	notify    chan struct{}
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		notify:  make(chan struct{}, 1),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-h.notify:
			h.pendingMu.Lock()
			payload := h.pending
			h.pending = nil
			h.pendingMu.Unlock()
			if payload == nil {
				continue
			}
			msg := wsMessage{Type: "state", Payload: mustMarshal(*payload)}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a state for every client without blocking. A state not yet
// broadcast is replaced, so clients always end on the newest one.
func (h *Hub) Publish(state stateResponse) {
	h.pendingMu.Lock()
	h.pending = &state
	h.pendingMu.Unlock()
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
