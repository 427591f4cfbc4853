package leaderboard

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dunkmaster/backend/internal/models"
)

// MaxNameLength is the longest accepted player name, in characters.
const MaxNameLength = 15

var (
	ErrNameRequired  = errors.New("player name is required")
	ErrNameTooLong   = errors.New("player name must be at most 15 characters")
	ErrInvalidScore  = errors.New("score must not be negative")
	ErrEntryNotFound = errors.New("leaderboard entry not found")
)

// Store persists leaderboard entries. Top returns at most limit entries ordered by
// score descending, earlier entries first on ties.
type Store interface {
	Top(ctx context.Context, limit int) ([]models.Score, error)
	Submit(ctx context.Context, name string, score int, sessionID string) (*models.Score, error)
	Delete(ctx context.Context, id int64) error
}

// ValidateName trims name and checks it is non-empty and short enough.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeName makes a player name safe to embed in HTML.
func EscapeName(name string) string {
	return htmlEscaper.Replace(name)
}

func validate(name string, score int) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	if score < 0 {
		return "", ErrInvalidScore
	}
	return name, nil
}
