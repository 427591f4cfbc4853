package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an admin stays logged in.
const SessionTTL = 4 * time.Hour

var ErrSessionExpired = errors.New("invalid or expired session")

// SessionStore maps opaque cookie tokens to admin usernames.
type SessionStore interface {
	Create(ctx context.Context, username string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type sessionData struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

func newSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// RedisSessionStore keeps sessions at admin_session:<token> with a TTL.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Create(ctx context.Context, username string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	data, _ := json.Marshal(sessionData{Username: username, ExpiresAt: time.Now().Add(SessionTTL).Unix()})
	if err := s.rdb.Set(ctx, "admin_session:"+token, data, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store admin session: %w", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	raw, err := s.rdb.Get(ctx, "admin_session:"+token).Result()
	if err != nil {
		return "", ErrSessionExpired
	}
	var data sessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data.Username == "" {
		return "", ErrSessionExpired
	}
	return data.Username, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "admin_session:"+token).Err()
}

// MemorySessionStore is the single-instance fallback when Redis is absent.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionData
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]sessionData), now: time.Now}
}

func (s *MemorySessionStore) Create(ctx context.Context, username string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[token] = sessionData{Username: username, ExpiresAt: s.now().Add(SessionTTL).Unix()}
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessionStore) Lookup(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[token]
	if !ok {
		return "", ErrSessionExpired
	}
	if s.now().Unix() >= data.ExpiresAt {
		delete(s.sessions, token)
		return "", ErrSessionExpired
	}
	return data.Username, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
