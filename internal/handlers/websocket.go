package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// WSHandler upgrades connections onto the edge hub
type WSHandler struct {
	hub *hub.Hub
	ctx context.Context
}

// NewWSHandler creates a websocket handler bound to the hub lifecycle
func NewWSHandler(h *hub.Hub, ctx context.Context) *WSHandler {
	return &WSHandler{hub: h, ctx: ctx}
}

// HandleEdges upgrades HTTP connections to websocket edge subscribers
func (h *WSHandler) HandleEdges(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	clientID := uuid.New().String()
	c := hub.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Pumps run on the hub context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}
