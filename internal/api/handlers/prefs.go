package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/session"
)

// PlayerAuthMiddleware accepts any unexpired session token, even for a session
// that has since ended, and sets player_id from it.
func PlayerAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := session.ParseToken([]byte(cfg.JWTSecret), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("player_id", claims.PlayerID)
		c.Next()
	}
}

// GetPrefs returns the caller's stored preferences
func GetPrefs(store prefs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := store.Load(c.Request.Context(), c.GetString("player_id"))
		if err != nil {
			log.Printf("[PREFS] load failed: %v", err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// UpdatePrefs changes the mute flag and/or player name. The high score is only
// ever written by finished games.
func UpdatePrefs(store prefs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Muted      *bool   `json:"muted"`
			PlayerName *string `json:"player_name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		ctx := c.Request.Context()
		playerID := c.GetString("player_id")
		if req.Muted != nil {
			if err := store.SetMuted(ctx, playerID, *req.Muted); err != nil {
				respondError(c, err)
				return
			}
		}
		if req.PlayerName != nil {
			if err := store.SetPlayerName(ctx, playerID, *req.PlayerName); err != nil {
				respondError(c, err)
				return
			}
		}

		p, err := store.Load(ctx, playerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
