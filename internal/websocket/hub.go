package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the envelope pushed to UI sessions
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub maintains the set of active sessions and broadcasts messages
type Hub struct {
	// Registered clients map: SessionID -> Client
	clients map[string]*Client

	// Outbound messages for every session
	broadcast chan []byte

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Session id changes after SESSION_IDENTIFY
	rename chan renameRequest

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

type renameRequest struct {
	client    *Client
	sessionID string
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rename:     make(chan renameRequest),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// If a session reconnects, close the old connection
			if old, ok := h.clients[client.SessionID]; ok && old != client {
				close(old.send)
			}
			h.clients[client.SessionID] = client
			h.mu.Unlock()
			log.Printf("🔌 Session connected: %s", client.SessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.SessionID]; ok && current == client {
				delete(h.clients, client.SessionID)
				close(client.send)
				log.Printf("📴 Session disconnected: %s", client.SessionID)
			}
			h.mu.Unlock()

		case req := <-h.rename:
			h.mu.Lock()
			client := req.client
			if current, ok := h.clients[client.SessionID]; ok && current == client {
				delete(h.clients, client.SessionID)
			}
			if old, ok := h.clients[req.sessionID]; ok && old != client {
				close(old.send)
			}
			client.SessionID = req.sessionID
			h.clients[req.sessionID] = client
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full, drop the slow session
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected session
func (h *Hub) Broadcast(msgType string, payload interface{}) error {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		return err
	}
	h.broadcast <- data
	return nil
}

// SendToSession sends a message to a specific session
func (h *Hub) SendToSession(sessionID string, message interface{}) bool {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[sessionID]
	return ok && offer(client, data)
}

// reply answers a control message on the session's own connection. It is a
// no-op once the hub has dropped the client.
func (h *Hub) reply(c *Client, message interface{}) bool {
	data, err := json.Marshal(message)
	if err != nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.SessionID] != c {
		return false
	}
	return offer(c, data)
}

// offer queues data without blocking. Callers hold h.mu so send is not
// closed underneath them.
func offer(c *Client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Count returns the number of connected sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
