package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/prefs"
)

// IdleKey is a sorted set of session IDs scored by the unix time they go idle.
const IdleKey = "session_idle"

// Manager owns every live session on this server.
type Manager struct {
	cfg   *config.Config
	rdb   *redis.Client
	prefs prefs.Store

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

func NewManager(cfg *config.Config, rdb *redis.Client, store prefs.Store) *Manager {
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	return &Manager{
		cfg:      cfg,
		rdb:      rdb,
		prefs:    store,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new game for playerID. An empty playerID gets a generated one.
// The game waits in the menu until a start input arrives.
func (m *Manager) Create(ctx context.Context, playerID string) (*Session, error) {
	if playerID == "" {
		playerID = "P_" + generateID(12)
	}
	if !playerIDPattern.MatchString(playerID) {
		return nil, ErrInvalidPlayerID
	}

	p, err := m.prefs.Load(ctx, playerID)
	if err != nil {
		log.Printf("[SESSION] prefs unavailable for %s, using defaults: %v", playerID, err)
	}

	id := "DUNK_" + generateID(12)
	token, err := issueToken([]byte(m.cfg.JWTSecret), id, playerID, time.Duration(m.cfg.SessionTTLMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	state := game.NewGameState(m.cfg.WorldWidth, m.cfg.WorldHeight, m.now().UnixNano())
	state.HighScore = p.HighScore

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:           id,
		PlayerID:     playerID,
		Token:        token,
		CreatedAt:    m.now(),
		driver:       game.NewDriver(state, m.cfg.TickRate),
		cancel:       cancel,
		done:         make(chan struct{}),
		publishEvery: m.cfg.Tunables().SnapshotEvery,
		subs:         make(map[chan game.Snapshot]struct{}),
		onGameOver:   m.recordHighScore,
	}
	if s.publishEvery < 1 {
		s.publishEvery = 1
	}
	s.driver.OnFrame = s.onFrame
	s.latest = state.Snapshot(nil, false)
	s.touch()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.scheduleIdle(ctx, s)
	go s.run(runCtx)

	log.Printf("[SESSION] created %s for player %s", id, playerID)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Authenticate resolves a session token to its live session.
func (m *Manager) Authenticate(token string) (*Session, error) {
	claims, err := ParseToken([]byte(m.cfg.JWTSecret), token)
	if err != nil {
		return nil, err
	}
	s, err := m.Get(claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s.PlayerID != claims.PlayerID {
		return nil, ErrInvalidToken
	}
	return s, nil
}

// Send queues an input on a session and pushes its idle deadline back.
func (m *Manager) Send(ctx context.Context, s *Session, in game.Input) error {
	if err := s.Send(in); err != nil {
		return err
	}
	m.scheduleIdle(ctx, s)
	return nil
}

// Close stops a session's game loop and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.cancel()
	<-s.done
	if m.rdb != nil {
		m.rdb.ZRem(context.Background(), IdleKey, id)
	}
	log.Printf("[SESSION] closed %s", id)
	return nil
}

// Count is the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Close(id)
	}
}

// Prefs exposes the preference store sessions record into.
func (m *Manager) Prefs() prefs.Store {
	return m.prefs
}

// recordHighScore runs on the driver goroutine, so the store call is detached.
func (m *Manager) recordHighScore(s *Session, score int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hs, err := m.prefs.RecordScore(ctx, s.PlayerID, score)
		if err != nil {
			log.Printf("[SESSION] failed to record score %d for %s: %v", score, s.PlayerID, err)
			return
		}
		log.Printf("[SESSION] %s finished with %d (best %d)", s.ID, score, hs)
	}()
}

func (m *Manager) idleTimeout() time.Duration {
	return time.Duration(m.cfg.Tunables().SessionIdleSeconds) * time.Second
}

func (m *Manager) scheduleIdle(ctx context.Context, s *Session) {
	if m.rdb == nil {
		return
	}
	deadline := s.LastActive().Add(m.idleTimeout()).Unix()
	if err := m.rdb.ZAdd(ctx, IdleKey, redis.Z{Score: float64(deadline), Member: s.ID}).Err(); err != nil {
		log.Printf("[IDLE] failed to schedule %s: %v", s.ID, err)
	}
}

func (m *Manager) expire(ctx context.Context, id string) {
	if err := m.Close(id); err != nil {
		return
	}
	if m.rdb == nil {
		return
	}
	b, _ := json.Marshal(map[string]interface{}{"type": "session_expired", "session_id": id})
	if err := m.rdb.Publish(ctx, leaderboard.EventsChannel, b).Err(); err != nil {
		log.Printf("[IDLE] publish expiry for %s failed: %v", id, err)
	}
}

// String is used in logs.
func (s *Session) String() string {
	return fmt.Sprintf("%s(player=%s)", s.ID, s.PlayerID)
}
