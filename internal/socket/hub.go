// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the connected admin consoles, keyed by user sub.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Send delivers a message to one client. An offline client is not an error.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[userID]
	if !ok {
		log.Printf("WebSocket client not found, could not send message: %s", userID)
		return nil
	}

	return conn.WriteMessage(websocket.TextMessage, message)
}

// Broadcast sends a message to every connected client. Write errors are
// logged per client and do not stop the fan-out.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket broadcast to %s failed: %v", userID, err)
		}
	}
}

// BroadcastJSON marshals v and broadcasts it.
func (h *Hub) BroadcastJSON(v interface{}) {
	message, err := json.Marshal(v)
	if err != nil {
		log.Printf("WebSocket broadcast marshal failed: %v", err)
		return
	}
	h.Broadcast(message)
}
