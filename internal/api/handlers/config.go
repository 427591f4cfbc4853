package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/leaderboard"
)

// GetConfig returns the values a client needs to lay out and pace the game
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"world_width":       cfg.WorldWidth,
			"world_height":      cfg.WorldHeight,
			"tick_rate":         cfg.TickRate,
			"game_speed":        cfg.GameSpeed(),
			"leaderboard_limit": cfg.Tunables().LeaderboardLimit,
			"max_name_length":   leaderboard.MaxNameLength,
		})
	}
}
