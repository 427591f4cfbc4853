package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/leaderboard"
)

// GetAdminScores lists leaderboard entries for moderation
func GetAdminScores(store leaderboard.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if limit <= 0 || limit > 200 {
			limit = 200
		}

		scores, err := store.Top(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch scores: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scores"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"scores": scores, "limit": limit})
	}
}

// DeleteAdminScore removes one leaderboard entry
func DeleteAdminScore(store leaderboard.Store, repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		route := "/api/v1/admin/scores/" + c.Param("id")

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score id"})
			return
		}

		ctx := c.Request.Context()
		if err := store.Delete(ctx, id); err != nil {
			log.Printf("[ADMIN] Failed to delete score %d: %v", id, err)
			repo.LogAdminAction(ctx, adminUsername, c.ClientIP(), route, "delete_score", map[string]interface{}{"id": id}, false)
			respondError(c, err)
			return
		}

		repo.LogAdminAction(ctx, adminUsername, c.ClientIP(), route, "delete_score", map[string]interface{}{"id": id}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
