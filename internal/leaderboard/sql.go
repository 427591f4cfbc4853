package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/dunkmaster/backend/internal/models"
)

// SQLStore keeps scores in the dunk_master_scores table.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Top(ctx context.Context, limit int) ([]models.Score, error) {
	scores := []models.Score{}
	err := s.db.SelectContext(ctx, &scores, `
		SELECT id, player_name, score, session_id, created_at
		FROM dunk_master_scores
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	return scores, nil
}

// Submit inserts a score. A session can only be submitted once; a repeat returns
// the entry already recorded for it.
func (s *SQLStore) Submit(ctx context.Context, name string, score int, sessionID string) (*models.Score, error) {
	name, err := validate(name, score)
	if err != nil {
		return nil, err
	}

	sid := sql.NullString{String: sessionID, Valid: sessionID != ""}
	var entry models.Score
	err = s.db.GetContext(ctx, &entry, `
		INSERT INTO dunk_master_scores (player_name, score, session_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id) WHERE session_id IS NOT NULL DO NOTHING
		RETURNING id, player_name, score, session_id, created_at
	`, name, score, sid)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("[LEADERBOARD] session %s already submitted", sessionID)
		err = s.db.GetContext(ctx, &entry, `
			SELECT id, player_name, score, session_id, created_at
			FROM dunk_master_scores WHERE session_id=$1
		`, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert score: %w", err)
	}

	log.Printf("[LEADERBOARD] recorded %d for %q (id=%d)", entry.Score, entry.PlayerName, entry.ID)
	return &entry, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dunk_master_scores WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete score %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}
