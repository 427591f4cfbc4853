package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/session"
)

// GetLeaderboard returns the top scores, at most cfg.LeaderboardLimit of them.
// ?format=html returns a ready-to-embed <ol> instead of JSON.
func GetLeaderboard(store leaderboard.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.Tunables().LeaderboardLimit
		if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v < limit {
			limit = v
		}

		scores, err := store.Top(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[LEADERBOARD] Failed to fetch top %d: %v", limit, err)
			respondError(c, err)
			return
		}

		if c.Query("format") == "html" {
			var b strings.Builder
			b.WriteString(`<ol class="leaderboard">`)
			for _, s := range scores {
				fmt.Fprintf(&b, `<li><span class="name">%s</span> <span class="score">%d</span></li>`, leaderboard.EscapeName(s.PlayerName), s.Score)
			}
			b.WriteString("</ol>")
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"scores": scores})
	}
}

// SubmitScore records the final score of a finished session under a player name.
// The score comes from the server-side game, never from the request.
func SubmitScore(store leaderboard.Store, manager *session.Manager, prefStore prefs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leaderboard.SubmitRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		name, err := leaderboard.ValidateName(req.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		s, err := manager.Authenticate(req.SessionToken)
		if err != nil {
			respondError(c, err)
			return
		}
		score, err := s.FinalScore()
		if err != nil {
			respondError(c, err)
			return
		}

		entry, err := store.Submit(c.Request.Context(), name, score, s.ID)
		if err != nil {
			log.Printf("[LEADERBOARD] Submit failed for %s: %v", s.ID, err)
			respondError(c, err)
			return
		}

		if err := prefStore.SetPlayerName(c.Request.Context(), s.PlayerID, name); err != nil {
			log.Printf("[LEADERBOARD] Failed to remember name for %s: %v", s.PlayerID, err)
		}

		c.JSON(http.StatusCreated, entry)
	}
}
