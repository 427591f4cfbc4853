package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StartIdleWorker reaps sessions nobody has sent input to for SessionIdleSeconds.
// Deadlines live in the session_idle sorted set when Redis is available; otherwise
// the in-memory last-activity stamps are scanned.
func (m *Manager) StartIdleWorker(ctx context.Context) {
	if m.cfg == nil || m.cfg.Tunables().SessionIdleSeconds <= 0 {
		log.Println("[IDLE] Idle timeout disabled; idle worker not started")
		return
	}

	poll := time.Duration(m.cfg.IdleWorkerPollInterval) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				m.reapIdle(ctx)
			}
		}
	}()
}

func (m *Manager) reapIdle(ctx context.Context) {
	if m.rdb == nil {
		for _, id := range m.idleSessions() {
			log.Printf("[IDLE] expiring %s", id)
			m.expire(ctx, id)
		}
		return
	}

	now := m.now().Unix()
	members, err := m.rdb.ZRangeByScore(ctx, IdleKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle sessions: %v", err)
		return
	}

	for _, id := range members {
		s, err := m.Get(id)
		if err != nil {
			// owned by another instance
			continue
		}
		if removed, _ := m.rdb.ZRem(ctx, IdleKey, id).Result(); removed == 0 {
			continue
		}
		if m.now().Sub(s.LastActive()) < m.idleTimeout() {
			m.scheduleIdle(ctx, s)
			continue
		}
		log.Printf("[IDLE] expiring %s idle since %s", s, s.LastActive().Format(time.RFC3339))
		m.expire(ctx, id)
	}
}

func (m *Manager) idleSessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, s := range m.sessions {
		if m.now().Sub(s.LastActive()) >= m.idleTimeout() {
			ids = append(ids, id)
		}
	}
	return ids
}
