package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/api"
	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/session"
	"github.com/dunkmaster/backend/internal/ws"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		JWTSecret:          "test-secret",
		SessionTTLMinutes:  10,
		SessionIdleSeconds: 60,
		WorldWidth:         400,
		WorldHeight:        800,
		TickRate:           500,
		SnapshotEvery:      1,
		LeaderboardLimit:   20,
	}
}

// waitFor reads frames until one matches or the deadline passes.
func waitFor(t *testing.T, frames <-chan game.Snapshot, match func(game.Snapshot) bool) game.Snapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				t.Fatal("frames closed before the expected frame")
			}
			if match(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for frame")
		}
	}
}

func status(s game.Status) func(game.Snapshot) bool {
	return func(snap game.Snapshot) bool { return snap.Status == s }
}

func TestLocalPlays(t *testing.T) {
	store := prefs.NewMemoryStore()
	store.Set("p1", "dunk_hs", "42")

	l, err := NewLocal(context.Background(), testConfig(), store, "p1", 7)
	if err != nil {
		t.Fatal(err)
	}
	l.Start(context.Background())
	defer l.Close()

	menu := waitFor(t, l.Frames(), status(game.StatusMenu))
	if menu.HighScore != 42 {
		t.Errorf("high score = %d, want 42", menu.HighScore)
	}
	if len(menu.Stars) == 0 {
		t.Error("local frames should carry stars")
	}

	if err := l.Send(game.Input{Kind: game.InputStart}); err != nil {
		t.Fatal(err)
	}
	aiming := waitFor(t, l.Frames(), status(game.StatusAiming))
	if aiming.Lives != game.StartLives {
		t.Errorf("lives = %d", aiming.Lives)
	}

	if _, err := l.Submit(context.Background(), "ace"); !errors.Is(err, ErrOffline) {
		t.Errorf("offline submit err = %v", err)
	}
}

func TestLocalCloseEndsFrames(t *testing.T) {
	l, err := NewLocal(context.Background(), testConfig(), prefs.NewMemoryStore(), "p1", 7)
	if err != nil {
		t.Fatal(err)
	}
	l.Start(context.Background())
	l.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-l.Frames():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frames not closed")
		}
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	store := prefs.NewMemoryStore()
	manager := session.NewManager(cfg, nil, store)

	router := gin.New()
	api.SetupRoutes(router, api.Deps{
		Config:        cfg,
		Leaderboard:   leaderboard.NewMemoryStore(),
		Sessions:      manager,
		Prefs:         store,
		Hub:           ws.NewHub(),
		AdminSessions: admin.NewMemorySessionStore(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		manager.Shutdown()
	})
	return srv
}

func TestRemotePlays(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	r, err := Dial(ctx, srv.URL, "p1", 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Info.PlayerID != "p1" || r.Info.Token == "" {
		t.Fatalf("session info %+v", r.Info)
	}

	menu := waitFor(t, r.Frames(), status(game.StatusMenu))
	if len(menu.Stars) == 0 {
		t.Error("backdrop stars missing")
	}

	if err := r.Send(game.Input{Kind: game.InputStart}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, r.Frames(), status(game.StatusAiming))

	if _, err := r.Submit(ctx, "ace"); err == nil || !strings.Contains(err.Error(), "not over") {
		t.Errorf("submitting a running game: %v", err)
	}

	top, err := r.Top(ctx, 5)
	if err != nil || len(top) != 0 {
		t.Errorf("top = %v, %v", top, err)
	}
}

func TestRemoteCloseEndsFrames(t *testing.T) {
	srv := newServer(t)
	r, err := Dial(context.Background(), srv.URL, "p1", 3)
	if err != nil {
		t.Fatal(err)
	}
	r.Close()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-r.Frames():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frames not closed")
		}
	}
}

func TestDialRejectsBadPlayer(t *testing.T) {
	srv := newServer(t)
	if _, err := Dial(context.Background(), srv.URL, "bad id!", 1); err == nil {
		t.Error("expected error for invalid player id")
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/api/v1/sessions/ws?token=abc"},
		{"https://dunk.example.com", "wss://dunk.example.com/api/v1/sessions/ws?token=abc"},
	}
	for _, tt := range tests {
		got, err := websocketURL(tt.base, "/api/v1/sessions/ws", "abc")
		if err != nil || got != tt.want {
			t.Errorf("websocketURL(%q) = %q, %v; want %q", tt.base, got, err, tt.want)
		}
	}
}
