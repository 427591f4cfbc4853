package prefs

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dunkmaster/backend/internal/leaderboard"
)

// Field names inside a player's preference hash.
const (
	FieldMuted      = "dunk_muted"
	FieldPlayerName = "dunk_player_name"
	FieldHighScore  = "dunk_hs"
)

// Prefs are the small per-player values that survive between games.
type Prefs struct {
	Muted      bool   `json:"muted"`
	PlayerName string `json:"player_name"`
	HighScore  int    `json:"high_score"`
}

// Store is a key-value store for Prefs. Writes are last-write-wins, except
// RecordScore which only ever raises the stored high score.
type Store interface {
	Load(ctx context.Context, playerID string) (Prefs, error)
	SetMuted(ctx context.Context, playerID string, muted bool) error
	SetPlayerName(ctx context.Context, playerID, name string) error
	// RecordScore stores score if it beats the current high score and returns the
	// high score after the update.
	RecordScore(ctx context.Context, playerID string, score int) (int, error)
}

func key(playerID string) string {
	return "prefs:" + playerID
}

// parse turns a raw hash into Prefs. Malformed values fall back to defaults.
func parse(raw map[string]string) Prefs {
	var p Prefs
	if v, ok := raw[FieldMuted]; ok {
		p.Muted = v == "true"
	}
	p.PlayerName = raw[FieldPlayerName]
	if v, ok := raw[FieldHighScore]; ok {
		if hs, err := strconv.Atoi(v); err == nil && hs > 0 {
			p.HighScore = hs
		}
	}
	return p
}

var recordScoreScript = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0') or 0
local score = tonumber(ARGV[2])
if score > cur then
	redis.call('HSET', KEYS[1], ARGV[1], score)
	return score
end
return cur
`)

// RedisStore keeps each player's prefs in a hash at prefs:<id>.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context, playerID string) (Prefs, error) {
	raw, err := s.rdb.HGetAll(ctx, key(playerID)).Result()
	if err != nil {
		return Prefs{}, fmt.Errorf("load prefs for %s: %w", playerID, err)
	}
	return parse(raw), nil
}

func (s *RedisStore) SetMuted(ctx context.Context, playerID string, muted bool) error {
	if err := s.rdb.HSet(ctx, key(playerID), FieldMuted, strconv.FormatBool(muted)).Err(); err != nil {
		return fmt.Errorf("save mute for %s: %w", playerID, err)
	}
	return nil
}

func (s *RedisStore) SetPlayerName(ctx context.Context, playerID, name string) error {
	name, err := leaderboard.ValidateName(name)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, key(playerID), FieldPlayerName, name).Err(); err != nil {
		return fmt.Errorf("save name for %s: %w", playerID, err)
	}
	return nil
}

func (s *RedisStore) RecordScore(ctx context.Context, playerID string, score int) (int, error) {
	hs, err := recordScoreScript.Run(ctx, s.rdb, []string{key(playerID)}, FieldHighScore, score).Int()
	if err != nil {
		return 0, fmt.Errorf("record score for %s: %w", playerID, err)
	}
	if hs == score && score > 0 {
		log.Printf("[PREFS] new high score %d for %s", score, playerID)
	}
	return hs, nil
}

// MemoryStore keeps prefs in process memory. It is the fallback when Redis is not
// configured and the store used by the terminal client.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) hash(playerID string) map[string]string {
	h, ok := m.data[key(playerID)]
	if !ok {
		h = make(map[string]string)
		m.data[key(playerID)] = h
	}
	return h
}

func (m *MemoryStore) Load(ctx context.Context, playerID string) (Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return parse(m.data[key(playerID)]), nil
}

func (m *MemoryStore) SetMuted(ctx context.Context, playerID string, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash(playerID)[FieldMuted] = strconv.FormatBool(muted)
	return nil
}

func (m *MemoryStore) SetPlayerName(ctx context.Context, playerID, name string) error {
	name, err := leaderboard.ValidateName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash(playerID)[FieldPlayerName] = name
	return nil
}

func (m *MemoryStore) RecordScore(ctx context.Context, playerID string, score int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hash(playerID)
	cur, _ := strconv.Atoi(h[FieldHighScore])
	if score > cur {
		h[FieldHighScore] = strconv.Itoa(score)
		return score, nil
	}
	return cur, nil
}

// Set writes a raw field value; used to seed stores in tests and imports.
func (m *MemoryStore) Set(playerID, field, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hash(playerID)[field] = value
}
