package leaderboard

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dunkmaster/backend/internal/models"
)

const (
	// CacheKey is a hash of limit -> JSON encoded top list.
	CacheKey = "leaderboard:top"
	// EventsChannel carries leaderboard_updated notifications for websocket clients.
	EventsChannel = "dunk_events"
)

// UpdateEvent is published on EventsChannel after every write.
type UpdateEvent struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Score  int    `json:"score,omitempty"`
}

// CachedStore serves Top from Redis and drops the cache on writes. With a nil
// client it passes everything straight through.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedStore) Top(ctx context.Context, limit int) ([]models.Score, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return c.next.Top(ctx, limit)
	}

	field := strconv.Itoa(limit)
	if raw, err := c.rdb.HGet(ctx, CacheKey, field).Bytes(); err == nil {
		var scores []models.Score
		if err := json.Unmarshal(raw, &scores); err == nil {
			return scores, nil
		}
		log.Printf("[LEADERBOARD] dropping corrupt cache entry for limit %d", limit)
	} else if err != redis.Nil {
		log.Printf("[LEADERBOARD] cache read failed: %v", err)
	}

	scores, err := c.next.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(scores); err == nil {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, CacheKey, field, b)
		pipe.Expire(ctx, CacheKey, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("[LEADERBOARD] cache write failed: %v", err)
		}
	}
	return scores, nil
}

func (c *CachedStore) Submit(ctx context.Context, name string, score int, sessionID string) (*models.Score, error) {
	entry, err := c.next.Submit(ctx, name, score, sessionID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, UpdateEvent{Type: "leaderboard_updated", Action: "submit", ID: entry.ID, Name: entry.PlayerName, Score: entry.Score})
	return entry, nil
}

func (c *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, UpdateEvent{Type: "leaderboard_updated", Action: "delete", ID: id})
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context, ev UpdateEvent) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, CacheKey).Err(); err != nil {
		log.Printf("[LEADERBOARD] cache invalidation failed: %v", err)
	}
	b, _ := json.Marshal(ev)
	if n, err := c.rdb.Publish(ctx, EventsChannel, b).Result(); err != nil {
		log.Printf("[LEADERBOARD] publish %s failed: %v", ev.Action, err)
	} else {
		log.Printf("[LEADERBOARD] published %s id=%d subscribers=%d", ev.Action, ev.ID, n)
	}
}
