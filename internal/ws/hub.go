package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks the websocket clients attached to each game session.
type Hub struct {
	rooms map[string]map[*Client]struct{} // sessionID -> clients
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.sessionID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.sessionID] = room
	}
	room[c] = struct{}{}
	log.Printf("[WS] client joined %s (room_size=%d)", c.sessionID, len(room))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.sessionID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	c.closeSend()
	if len(room) == 0 {
		delete(h.rooms, c.sessionID)
	}
	log.Printf("[WS] client left %s", c.sessionID)
}

// ClientCount is the number of connected clients across all sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, room := range h.rooms {
		for c := range room {
			c.trySend(data)
		}
	}
}

// SendToSession sends a message to every client watching one session.
func (h *Hub) SendToSession(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		log.Printf("[WS] SendToSession no clients for %s", sessionID)
		return
	}
	for c := range room {
		c.trySend(data)
	}
}
