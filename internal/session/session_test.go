package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/prefs"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		SessionTTLMinutes:      10,
		SessionIdleSeconds:     60,
		IdleWorkerPollInterval: 1,
		WorldWidth:             400,
		WorldHeight:            800,
		TickRate:               500,
		SnapshotEvery:          1,
	}
}

func newTestManager(t *testing.T) (*Manager, *prefs.MemoryStore) {
	t.Helper()
	store := prefs.NewMemoryStore()
	m := NewManager(testConfig(), nil, store)
	t.Cleanup(m.Shutdown)
	return m, store
}

func waitFor(t *testing.T, ch <-chan game.Snapshot, ok func(game.Snapshot) bool) game.Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, open := <-ch:
			if !open {
				t.Fatal("snapshot channel closed")
			}
			if ok(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestCreateRejectsBadPlayerID(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Create(context.Background(), "no spaces allowed"); !errors.Is(err, ErrInvalidPlayerID) {
		t.Errorf("expected ErrInvalidPlayerID, got %v", err)
	}
}

func TestCreateLoadsHighScore(t *testing.T) {
	m, store := newTestManager(t)
	store.RecordScore(context.Background(), "p1", 33)

	s, err := m.Create(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Status != game.StatusMenu || snap.HighScore != 33 {
		t.Errorf("new session snapshot status=%s high=%d", snap.Status, snap.HighScore)
	}
}

func TestAuthenticate(t *testing.T) {
	m, _ := newTestManager(t)
	s, err := m.Create(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if s.PlayerID == "" {
		t.Fatal("anonymous session should get a generated player id")
	}

	got, err := m.Authenticate(s.Token)
	if err != nil || got != s {
		t.Fatalf("Authenticate = %v, %v", got, err)
	}

	if _, err := m.Authenticate(s.Token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token: %v", err)
	}

	foreign, _ := issueToken([]byte("other-secret"), s.ID, s.PlayerID, time.Minute)
	if _, err := m.Authenticate(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token: %v", err)
	}

	expired, _ := issueToken([]byte("test-secret"), s.ID, s.PlayerID, -time.Minute)
	if _, err := m.Authenticate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: %v", err)
	}

	wrongPlayer, _ := issueToken([]byte("test-secret"), s.ID, "someone-else", time.Minute)
	if _, err := m.Authenticate(wrongPlayer); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token for another player: %v", err)
	}

	unknown, _ := issueToken([]byte("test-secret"), "DUNK_NOPE", s.PlayerID, time.Minute)
	if _, err := m.Authenticate(unknown); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: %v", err)
	}
}

func TestInputsReachTheGame(t *testing.T) {
	m, _ := newTestManager(t)
	s, _ := m.Create(context.Background(), "p1")
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	if err := m.Send(context.Background(), s, game.Input{Kind: game.InputStart}); err != nil {
		t.Fatal(err)
	}
	snap := waitFor(t, ch, func(s game.Snapshot) bool { return s.Status == game.StatusAiming })
	if snap.Lives != game.StartLives || len(snap.Hoops) != 2 {
		t.Errorf("started game lives=%d hoops=%d", snap.Lives, len(snap.Hoops))
	}

	if _, err := s.FinalScore(); !errors.Is(err, ErrGameNotOver) {
		t.Errorf("FinalScore during play: %v", err)
	}
}

func TestCloseStopsSession(t *testing.T) {
	m, _ := newTestManager(t)
	s, _ := m.Create(context.Background(), "p1")
	ch, unsubscribe := s.Subscribe()

	if err := m.Close(s.ID); err != nil {
		t.Fatal(err)
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("driver still running after Close")
	}
	for range ch {
	}
	unsubscribe()

	if _, err := m.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("closed session still resolvable: %v", err)
	}
	if err := m.Close(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double close: %v", err)
	}

	late, _ := s.Subscribe()
	if _, open := <-late; open {
		t.Error("subscribing to a closed session should yield a closed channel")
	}
}

func TestIdleSessionsAreReaped(t *testing.T) {
	m, _ := newTestManager(t)
	idle, _ := m.Create(context.Background(), "idle")
	active, _ := m.Create(context.Background(), "active")

	later := time.Now().Add(61 * time.Second)
	m.now = func() time.Time { return later }
	active.lastActive.Store(later.UnixNano())

	m.reapIdle(context.Background())

	if _, err := m.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("idle session survived")
	}
	if _, err := m.Get(active.ID); err != nil {
		t.Error("active session was reaped")
	}
}

func TestOnFramePublishCadence(t *testing.T) {
	g := game.NewGameState(400, 800, 1)
	s := &Session{publishEvery: 3, subs: make(map[chan game.Snapshot]struct{})}
	ch := make(chan game.Snapshot, 4)
	s.subs[ch] = struct{}{}

	s.onFrame(g, nil)
	s.onFrame(g, nil)
	if len(ch) != 0 {
		t.Fatal("published before the cadence")
	}
	s.onFrame(g, nil)
	if len(ch) != 1 {
		t.Fatalf("expected a publish on the third frame, got %d", len(ch))
	}

	s.onFrame(g, []game.Event{{Kind: game.EventJump}})
	<-ch
	snap := <-ch
	if len(snap.Events) != 1 || snap.Events[0].Kind != game.EventJump {
		t.Errorf("events should publish immediately, got %+v", snap.Events)
	}
}

func TestGameOverRecordsHighScore(t *testing.T) {
	m, store := newTestManager(t)
	store.RecordScore(context.Background(), "p1", 10)
	s := &Session{ID: "DUNK_X", PlayerID: "p1", publishEvery: 1, subs: make(map[chan game.Snapshot]struct{}), onGameOver: m.recordHighScore}

	s.onFrame(game.NewGameState(400, 800, 1), []game.Event{{Kind: game.EventGameOver, Score: 14}})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p, _ := store.Load(context.Background(), "p1"); p.HighScore == 14 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("high score was not recorded")
}
