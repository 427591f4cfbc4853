package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client is one websocket connection attached to a session.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	playerID  string
	send      chan []byte

	mu     sync.Mutex
	closed bool
}

// Message is the envelope for everything sent over the socket.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HandleSession upgrades an authenticated request and streams the session's
// snapshots. Inputs arrive as {"type":"input","data":{"kind":...,"x":...,"y":...}}.
func HandleSession(hub *Hub, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		s, err := manager.Authenticate(token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, session.ErrSessionNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed for %s: %v", s.ID, err)
			return
		}

		client := &Client{
			conn:      conn,
			sessionID: s.ID,
			playerID:  s.PlayerID,
			send:      make(chan []byte, 32),
		}
		hub.register(client)

		snapshots, unsubscribe := s.Subscribe()
		go client.writePump()
		go client.forward(snapshots, s.Snapshot())
		client.readPump(hub, manager, s)
		unsubscribe()
	}
}

// forward relays published snapshots until the session ends.
func (c *Client) forward(snapshots <-chan game.Snapshot, first game.Snapshot) {
	c.sendJSON("snapshot", first)
	for snap := range snapshots {
		c.sendJSON("snapshot", snap)
	}
	// session closed: drop the connection so the read pump exits
	c.conn.Close()
}

func (c *Client) readPump(hub *Hub, manager *session.Manager, s *session.Session) {
	defer func() {
		hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for %s: %v", c.sessionID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		switch msg.Type {
		case "input":
			var in game.Input
			if err := json.Unmarshal(msg.Data, &in); err != nil {
				c.sendError("invalid input")
				continue
			}
			if err := manager.Send(context.Background(), s, in); err != nil {
				log.Printf("[WS] input dropped for %s: %v", c.sessionID, err)
				c.sendError(err.Error())
			}
		case "ping":
			c.sendJSON("pong", nil)
		default:
			c.sendError("unknown message type: " + msg.Type)
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for %s: %v", c.sessionID, err)
				return
			}
		}
	}
}

func (c *Client) sendJSON(kind string, payload interface{}) {
	msg := Message{Type: kind}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[WS] Error marshaling %s: %v", kind, err)
			return
		}
		msg.Data = data
	}
	b, _ := json.Marshal(msg)
	c.trySend(b)
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	c.trySend(data)
}

// trySend never blocks; a full buffer means the client is behind and the frame
// is dropped.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] send buffer full for %s, dropping message", c.sessionID)
	}
}

// closeSend stops the write pump. Safe to call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
