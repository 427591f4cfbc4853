package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		SessionTTLMinutes:  10,
		SessionIdleSeconds: 60,
		WorldWidth:         400,
		WorldHeight:        800,
		TickRate:           200,
		SnapshotEvery:      1,
	}
	manager := session.NewManager(cfg, nil, nil)
	hub := NewHub()

	r := gin.New()
	r.GET("/ws", HandleSession(hub, manager))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		manager.Shutdown()
		srv.Close()
	})
	return srv, hub, manager
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func readUntil(t *testing.T, conn *websocket.Conn, ok func(Message) bool) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if ok(msg) {
			return msg
		}
	}
}

func TestRejectsBadToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "garbage"), nil)
	if err == nil {
		t.Fatal("dial with a bad token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %+v", resp)
	}
}

func TestSessionStream(t *testing.T) {
	srv, hub, manager := newTestServer(t)
	s, err := manager.Create(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, s.Token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readUntil(t, conn, func(m Message) bool { return m.Type == "snapshot" })
	var snap game.Snapshot
	json.Unmarshal(first.Data, &snap)
	if snap.Status != game.StatusMenu {
		t.Errorf("first snapshot status %s, want MENU", snap.Status)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("hub has %d clients", hub.ClientCount())
	}

	input, _ := json.Marshal(game.Input{Kind: game.InputStart})
	conn.WriteJSON(Message{Type: "input", Data: input})
	readUntil(t, conn, func(m Message) bool {
		if m.Type != "snapshot" {
			return false
		}
		var s game.Snapshot
		json.Unmarshal(m.Data, &s)
		return s.Status == game.StatusAiming
	})

	conn.WriteJSON(Message{Type: "dance"})
	readUntil(t, conn, func(m Message) bool { return m.Type == "error" })

	conn.WriteJSON(Message{Type: "ping"})
	readUntil(t, conn, func(m Message) bool { return m.Type == "pong" })
}

func TestClosedSessionDropsConnection(t *testing.T) {
	srv, _, manager := newTestServer(t)
	s, _ := manager.Create(context.Background(), "p1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, s.Token), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readUntil(t, conn, func(m Message) bool { return m.Type == "snapshot" })

	manager.Close(s.ID)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				t.Fatal("connection stayed open after the session closed")
			}
			return
		}
	}
}

func TestDispatchEvent(t *testing.T) {
	hub := NewHub()
	a := &Client{sessionID: "A", send: make(chan []byte, 4)}
	b := &Client{sessionID: "B", send: make(chan []byte, 4)}
	hub.register(a)
	hub.register(b)

	hub.dispatchEvent([]byte(`{"type":"leaderboard_updated","action":"submit","id":3}`))
	if len(a.send) != 1 || len(b.send) != 1 {
		t.Fatalf("leaderboard update should reach everyone: a=%d b=%d", len(a.send), len(b.send))
	}

	hub.dispatchEvent([]byte(`{"type":"session_expired","session_id":"B"}`))
	if len(a.send) != 1 || len(b.send) != 2 {
		t.Errorf("expiry should only reach B: a=%d b=%d", len(a.send), len(b.send))
	}

	hub.dispatchEvent([]byte(`not json`))
	hub.unregister(a)
	hub.unregister(a)
	a.trySend([]byte("late"))
	if hub.ClientCount() != 1 {
		t.Errorf("client count %d after unregister", hub.ClientCount())
	}
}
