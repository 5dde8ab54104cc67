package websocket

import (
	"encoding/json"
	"sync"

	"ai-blueprint-be/internal/pkg/logger"
)

// Hub fans accepted turns, state changes and blueprint availability
// out to the clients watching a session. Multiple clients may watch
// the same session (multi-tab).
type Hub struct {
	// Registered clients map: SessionID -> List of Clients
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes one event to every client watching the session. Slow
// clients are dropped rather than allowed to stall the turn flow.
func (h *Hub) Send(sessionID, eventType string, data interface{}) {
	// 1. Serialize
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		h.logger.Warn("Hub", "Event marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	// 2. Deliver to watchers. Copied so an unregister landing mid-send
	// cannot shift the slice under the loop
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			// Unregister closes the channel; closing here too would
			// double-close on the Run side
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}
