package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Score is a leaderboard entry
type Score struct {
	ID         int64          `db:"id" json:"id"`
	PlayerName string         `db:"player_name" json:"name"`
	Score      int            `db:"score" json:"score"`
	SessionID  sql.NullString `db:"session_id" json:"-"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// AdminAccount is an operator allowed to moderate the leaderboard
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName sql.NullString `db:"display_name" json:"display_name,omitempty"`
	TokenHash   string         `db:"token_hash" json:"-"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one recorded admin action
type AdminAudit struct {
	ID            int64          `db:"id" json:"id"`
	AdminUsername sql.NullString `db:"admin_username" json:"admin_username,omitempty"`
	IP            sql.NullString `db:"ip" json:"ip,omitempty"`
	Route         sql.NullString `db:"route" json:"route,omitempty"`
	Action        string         `db:"action" json:"action"`
	Details       []byte         `db:"details" json:"details,omitempty"`
	Success       bool           `db:"success" json:"success"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is an operator-editable setting that overrides the environment
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
