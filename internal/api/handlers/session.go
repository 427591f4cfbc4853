package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/session"
)

const sessionContextKey = "game_session"

// SessionAuthMiddleware resolves the bearer session token to a live session
func SessionAuthMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := manager.Authenticate(bearerToken(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionContextKey, s)
		c.Set("player_id", s.PlayerID)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}

// CreateSession starts a new server-side game
func CreateSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		// an empty body is fine: the player gets a generated id
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		s, err := manager.Create(c.Request.Context(), req.PlayerID)
		if err != nil {
			log.Printf("[SESSION] create failed: %v", err)
			respondError(c, err)
			return
		}

		snap := s.Snapshot()
		c.JSON(http.StatusCreated, gin.H{
			"session_id": s.ID,
			"player_id":  s.PlayerID,
			"token":      s.Token,
			"ws_path":    "/api/v1/sessions/ws",
			"high_score": snap.HighScore,
			"width":      snap.Width,
			"height":     snap.Height,
		})
	}
}

// GetSessionState returns the latest published frame
func GetSessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentSession(c).Snapshot())
	}
}

// SendSessionInput queues one input; the websocket is the usual path, this is
// the fallback for clients without one.
func SendSessionInput(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in game.Input
		if err := c.BindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		switch in.Kind {
		case game.InputStart, game.InputRestart, game.InputPointerDown, game.InputPointerMove, game.InputPointerUp:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown input kind: " + string(in.Kind)})
			return
		}

		if err := manager.Send(c.Request.Context(), currentSession(c), in); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	}
}

// EndSession stops the game and releases its resources
func EndSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Close(currentSession(c).ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
