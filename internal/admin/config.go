package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/models"
)

var ErrConfigKeyNotFound = errors.New("config key not found")

// GetAllRuntimeConfig returns all runtime config entries
func (r *SQLRepository) GetAllRuntimeConfig(ctx context.Context) ([]models.RuntimeConfig, error) {
	configs := []models.RuntimeConfig{}
	err := r.db.SelectContext(ctx, &configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// UpdateRuntimeConfigValue updates a single runtime config value
func (r *SQLRepository) UpdateRuntimeConfigValue(ctx context.Context, key, value, adminUsername string) error {
	var valueType string
	err := r.db.GetContext(ctx, &valueType, `SELECT value_type FROM runtime_config WHERE key=$1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrConfigKeyNotFound, key)
	}
	if err != nil {
		return err
	}

	if err := ValidateValue(valueType, value); err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminUsername, key)
	return err
}

// ValidateValue checks value parses as valueType.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// ApplyRuntimeConfigToConfig loads runtime config and applies overrides to the Config struct
func ApplyRuntimeConfigToConfig(ctx context.Context, repo Repository, cfg *config.Config) error {
	configs, err := repo.GetAllRuntimeConfig(ctx)
	if err != nil {
		return err
	}
	applied := applyRuntimeConfig(configs, cfg)
	log.Printf("[CONFIG] Applied %d runtime config overrides from database", applied)
	return nil
}

func applyRuntimeConfig(configs []models.RuntimeConfig, cfg *config.Config) int {
	t := cfg.Tunables()
	applied := 0
	for _, c := range configs {
		v, err := strconv.Atoi(c.Value)
		if err != nil || v <= 0 {
			continue
		}
		switch c.Key {
		case "leaderboard_limit":
			t.LeaderboardLimit = v
		case "leaderboard_cache_seconds":
			t.LeaderboardCacheSeconds = v
		case "session_idle_seconds":
			t.SessionIdleSeconds = v
		case "snapshot_every":
			t.SnapshotEvery = v
		default:
			continue
		}
		applied++
	}
	cfg.SetTunables(t)
	return applied
}
