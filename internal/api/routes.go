package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/api/handlers"
	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/middleware"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/session"
	"github.com/dunkmaster/backend/internal/ws"
)

// Deps are the collaborators the routes are wired to. AdminRepo may be nil, in
// which case the admin API is not mounted.
type Deps struct {
	Config        *config.Config
	Leaderboard   leaderboard.Store
	Sessions      *session.Manager
	Prefs         prefs.Store
	Hub           *ws.Hub
	AdminRepo     admin.Repository
	AdminSessions admin.SessionStore
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config

	router.Use(middleware.CORSMiddleware(cfg))

	if !cfg.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))

		v1.GET("/leaderboard", handlers.GetLeaderboard(d.Leaderboard, cfg))
		v1.POST("/leaderboard", handlers.SubmitScore(d.Leaderboard, d.Sessions, d.Prefs))

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(d.Sessions))
			sessions.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket(d.Hub, d.Sessions))

			current := sessions.Group("/current", handlers.SessionAuthMiddleware(d.Sessions))
			current.GET("", handlers.GetSessionState())
			current.POST("/input", handlers.SendSessionInput(d.Sessions))
			current.DELETE("", handlers.EndSession(d.Sessions))
		}

		p := v1.Group("/prefs", handlers.PlayerAuthMiddleware(cfg))
		{
			p.GET("", handlers.GetPrefs(d.Prefs))
			p.PUT("", handlers.UpdatePrefs(d.Prefs))
		}

		if d.AdminRepo == nil || d.AdminSessions == nil {
			log.Println("[ADMIN] No admin repository configured; admin API disabled")
			return
		}

		a := v1.Group("/admin")
		{
			a.POST("/login", handlers.AdminLogin(d.AdminRepo, d.AdminSessions, cfg))
			a.POST("/logout", handlers.AdminLogout(d.AdminSessions))

			authed := a.Group("", handlers.AdminSessionMiddleware(d.AdminSessions))
			authed.GET("/me", handlers.AdminMe())
			authed.GET("/scores", handlers.GetAdminScores(d.Leaderboard))
			authed.DELETE("/scores/:id", handlers.DeleteAdminScore(d.Leaderboard, d.AdminRepo))
			authed.GET("/audit", handlers.GetAdminAuditLogs(d.AdminRepo))
			authed.GET("/config", handlers.GetAdminRuntimeConfig(d.AdminRepo))
			authed.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(d.AdminRepo, cfg))
		}
	}
}
