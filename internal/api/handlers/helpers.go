package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/session"
)

// bearerToken reads "Authorization: Bearer <token>", falling back to ?token=.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, leaderboard.ErrNameRequired),
		errors.Is(err, leaderboard.ErrNameTooLong),
		errors.Is(err, leaderboard.ErrInvalidScore),
		errors.Is(err, session.ErrInvalidPlayerID):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, leaderboard.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrGameNotOver):
		return http.StatusConflict
	case errors.Is(err, session.ErrInputQueueFull):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}; internal errors are not echoed back.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
