// Package hub fans out refreshed edge reports to websocket
// subscribers. Subscribers are passive: they receive every report
// published after an edge computation or a simulated line change.
package hub

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Message types pushed to subscribers
const (
	MessageTypeEdgeReport = "edge_report"
)

// Message is the envelope written to every subscriber
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
}

// New creates a hub
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	fmt.Println("✓ Edge hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast queues a payload for all subscribers (non-blocking)
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	msg := Message{Type: msgType, Payload: payload, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		fmt.Println("⚠️  Broadcast buffer full, dropping message")
	}
}

// ClientCount returns the number of active subscribers
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	fmt.Printf("client %s connected (total: %d)\n", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		fmt.Printf("client %s disconnected (total: %d)\n", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastMessage(msg Message) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(msg) {
			// Client buffer full - they're too slow, disconnect them
			fmt.Printf("⚠️  client %s buffer full, disconnecting\n", c.ID)
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	fmt.Printf("🛑 Shutting down hub (%d active clients)\n", len(h.clients))

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
