package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/config"
)

const adminCookieName = "admin_session"

// AdminLogin validates username + token and creates a session cookie
func AdminLogin(repo admin.Repository, sessions admin.SessionStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Token    string `json:"token" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		ctx := c.Request.Context()
		username := strings.TrimSpace(req.Username)

		if _, err := admin.ValidateAdminCredentials(ctx, repo, username, strings.TrimSpace(req.Token), c.ClientIP()); err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			repo.LogAdminAction(ctx, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := sessions.Create(ctx, username)
		if err != nil {
			log.Printf("[ADMIN] Failed to store session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		// Set HTTP-only cookie
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookieName, token, int(admin.SessionTTL.Seconds()), "/api/v1/admin", "", cfg.IsProduction(), true)

		repo.LogAdminAction(ctx, username, c.ClientIP(), "/api/v1/admin/login", "login_success", map[string]interface{}{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminLogout clears admin session
func AdminLogout(sessions admin.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookieName)
		if err == nil && token != "" {
			sessions.Delete(c.Request.Context(), token)
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookieName, "", -1, "/api/v1/admin", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminMe returns the current admin session info
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	}
}

// AdminSessionMiddleware validates admin session from cookie
func AdminSessionMiddleware(sessions admin.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		username, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}
