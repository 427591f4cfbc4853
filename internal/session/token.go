package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrInvalidPlayerID = errors.New("player id must be 1-64 letters, digits, '-' or '_'")
	ErrInputQueueFull  = errors.New("input queue full")
	ErrGameNotOver     = errors.New("game is not over")
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Claims identify a session and the player who owns it.
type Claims struct {
	SessionID string `json:"sid"`
	PlayerID  string `json:"pid"`
	jwt.RegisteredClaims
}

func issueToken(secret []byte, sessionID, playerID string, ttl time.Duration) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		PlayerID:  playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 session token and returns its claims.
func ParseToken(secret []byte, token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// generateID generates a random alphanumeric ID
func generateID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
