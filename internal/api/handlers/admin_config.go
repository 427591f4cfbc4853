package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/config"
)

// GetAdminRuntimeConfig returns all runtime config entries
func GetAdminRuntimeConfig(repo admin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := repo.GetAllRuntimeConfig(c.Request.Context())
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"configs": configs})
	}
}

// UpdateAdminRuntimeConfig updates a single runtime config value
func UpdateAdminRuntimeConfig(repo admin.Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		key := c.Param("key")
		ctx := c.Request.Context()

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}

		err := repo.UpdateRuntimeConfigValue(ctx, key, req.Value, adminUsername)
		if err != nil {
			log.Printf("[ADMIN] Failed to update config %s: %v", key, err)
			repo.LogAdminAction(ctx, adminUsername, c.ClientIP(), "/api/v1/admin/config/"+key, "update_config", map[string]interface{}{"key": key, "value": req.Value}, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Re-apply runtime config to in-memory config
		if err := admin.ApplyRuntimeConfigToConfig(ctx, repo, cfg); err != nil {
			log.Printf("[ADMIN] Warning: failed to apply runtime config: %v", err)
		}

		repo.LogAdminAction(ctx, adminUsername, c.ClientIP(), "/api/v1/admin/config/"+key, "update_config", map[string]interface{}{"key": key, "value": req.Value}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
