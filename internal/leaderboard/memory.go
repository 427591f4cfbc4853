package leaderboard

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dunkmaster/backend/internal/models"
)

// MemoryStore is a process-local Store used when no database is configured.
type MemoryStore struct {
	mu     sync.Mutex
	scores []models.Score
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Top(ctx context.Context, limit int) ([]models.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit > len(m.scores) || limit < 0 {
		limit = len(m.scores)
	}
	out := make([]models.Score, limit)
	copy(out, m.scores[:limit])
	return out, nil
}

func (m *MemoryStore) Submit(ctx context.Context, name string, score int, sessionID string) (*models.Score, error) {
	name, err := validate(name, score)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID != "" {
		for _, s := range m.scores {
			if s.SessionID.Valid && s.SessionID.String == sessionID {
				dup := s
				return &dup, nil
			}
		}
	}

	m.nextID++
	entry := models.Score{
		ID:         m.nextID,
		PlayerName: name,
		Score:      score,
		SessionID:  sql.NullString{String: sessionID, Valid: sessionID != ""},
		CreatedAt:  m.now(),
	}
	m.scores = append(m.scores, entry)
	sort.SliceStable(m.scores, func(i, j int) bool {
		return m.scores[i].Score > m.scores[j].Score
	})
	return &entry, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.scores {
		if s.ID == id {
			m.scores = append(m.scores[:i], m.scores[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
