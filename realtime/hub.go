// File: /realtime/hub.go
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// ChangeEvent tells a client that a row it may be displaying changed.
// Clients respond by re-running their authoritative fetch for the table;
// events carry no row data on purpose (re-query, not incremental patch).
type ChangeEvent struct {
	Table    string `json:"table"`  // connections, sessions, notifications, messages
	Action   string `json:"action"` // insert, update, delete
	RecordID string `json:"record_id"`
}

const (
	TableConnections   = "connections"
	TableSessions      = "sessions"
	TableNotifications = "notifications"
	TableMessages      = "messages"

	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Hub keeps the per-user client registry and routes change events
type Hub struct {
	// Registered clients map: UserID -> list of clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			log.Printf("Realtime client registered for user %s", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyChange delivers a change event to every connected client of the named
// users. Delivery is best-effort: clients that cannot keep up are dropped and
// will re-sync on reconnect.
func (h *Hub) NotifyChange(event ChangeEvent, userIDs ...string) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "change",
		"data": event,
	})
	if err != nil {
		log.Printf("Failed to marshal change event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for _, client := range h.clients[userID] {
			select {
			case client.Send <- data:
			default:
				// Slow client; unregister closes its send channel
				log.Printf("Realtime client buffer full for user %s, dropping connection", userID)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// ConnectedUsers returns how many distinct users hold open connections
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
