package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	ws "github.com/rcampos/diapredict-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket
// connections for the live event feed.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. The feed is one-way: clients
// receive events; anything they send is ignored.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(nil)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}
