package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/dunkmaster/backend/internal/models"
)

var (
	ErrAccountNotFound = errors.New("admin account not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrIPNotAllowed    = errors.New("ip not allowed for this admin")
)

// Repository is the admin persistence used by the HTTP handlers.
type Repository interface {
	GetAdminAccount(ctx context.Context, username string) (*models.AdminAccount, error)
	LogAdminAction(ctx context.Context, username, ip, route, action string, details map[string]interface{}, success bool) error
	GetAdminAuditLogs(ctx context.Context, limit, offset int) ([]models.AdminAudit, error)
	GetAllRuntimeConfig(ctx context.Context) ([]models.RuntimeConfig, error)
	UpdateRuntimeConfigValue(ctx context.Context, key, value, adminUsername string) error
}

// SQLRepository implements Repository on PostgreSQL.
type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// GetAdminAccount retrieves an admin account by username
func (r *SQLRepository) GetAdminAccount(ctx context.Context, username string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	err := r.db.GetContext(ctx, &admin, `SELECT username, display_name, token_hash, allowed_ips, created_at, updated_at FROM admin_accounts WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdminAccount creates or replaces an admin account (used for seeding)
func CreateAdminAccount(db *sqlx.DB, username, displayName, plainToken string, allowedIPs []string) error {
	hashedToken, err := HashToken(plainToken)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO admin_accounts (username, display_name, token_hash, allowed_ips, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			token_hash = EXCLUDED.token_hash,
			allowed_ips = EXCLUDED.allowed_ips,
			updated_at = NOW()
	`, username, displayName, hashedToken, pq.Array(allowedIPs))

	return err
}

// LogAdminAction records an admin action in the audit log
func (r *SQLRepository) LogAdminAction(ctx context.Context, username, ip, route, action string, details map[string]interface{}, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO admin_audit (admin_username, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, username, ip, route, action, detailsJSON, success)

	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}

	return err
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func (r *SQLRepository) GetAdminAuditLogs(ctx context.Context, limit, offset int) ([]models.AdminAudit, error) {
	logs := []models.AdminAudit{}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, admin_username, ip, route, action, details, success, created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return logs, err
}

// HashToken bcrypt-hashes a plain admin token.
func HashToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// ipAllowed reports whether ip matches the allow list. An empty list allows
// everyone; entries may be single addresses or CIDR ranges.
func ipAllowed(allowed []string, ip string) bool {
	if len(allowed) == 0 {
		return true
	}
	parsed := net.ParseIP(ip)
	for _, entry := range allowed {
		if entry == ip {
			return true
		}
		if _, network, err := net.ParseCIDR(entry); err == nil && parsed != nil && network.Contains(parsed) {
			return true
		}
	}
	return false
}

// ValidateAdminCredentials validates username + token from the given client IP
func ValidateAdminCredentials(ctx context.Context, repo Repository, username, token, ip string) (*models.AdminAccount, error) {
	log.Printf("[ADMIN] Validating username: %s", username)

	admin, err := repo.GetAdminAccount(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			log.Printf("[ADMIN] No admin account found for: %s", username)
			return nil, err
		}
		log.Printf("[ADMIN] Database error: %v", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyAdminToken(admin.TokenHash, token) {
		log.Printf("[ADMIN] Token verification failed for: %s", username)
		return nil, ErrInvalidToken
	}

	if !ipAllowed(admin.AllowedIPs, ip) {
		log.Printf("[ADMIN] %s rejected from ip %s", username, ip)
		return nil, ErrIPNotAllowed
	}

	log.Printf("[ADMIN] Token verified successfully for: %s", username)
	return admin, nil
}
