package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected clients and broadcasts the live event
// feed to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages queued for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastEvent queues an encoded event for delivery to all clients. Safe to
// call from any goroutine; drops the message if the hub is not draining.
func (h *Hub) BroadcastEvent(payload []byte) {
	select {
	case h.Broadcast <- payload:
	default:
	}
}
