package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/api"
	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/database"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/migrations"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/redis"
	"github.com/dunkmaster/backend/internal/session"
	"github.com/dunkmaster/backend/internal/ws"
)

func main() {
	log.SetOutput(os.Stdout)

	// Initialize configuration (reads .env when present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is optional outside production: without it the leaderboard lives
	// in memory and the admin API is off.
	var db *sqlx.DB
	if cfg.MigrateOnStart {
		log.Println("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			failOrWarn(cfg, "migrations", err)
		}
	}
	if conn, err := database.Connect(cfg.DatabaseURL); err != nil {
		failOrWarn(cfg, "database", err)
	} else {
		db = conn
		defer db.Close()
	}

	var rdb *goredis.Client
	if conn, err := redis.Connect(cfg.RedisURL); err != nil {
		failOrWarn(cfg, "redis", err)
	} else {
		rdb = conn
		defer rdb.Close()
	}

	deps := api.Deps{Config: cfg, Hub: ws.NewHub()}

	var board leaderboard.Store = leaderboard.NewMemoryStore()
	if db != nil {
		board = leaderboard.NewSQLStore(db)

		repo := admin.NewSQLRepository(db)
		if err := admin.ApplyRuntimeConfigToConfig(ctx, repo, cfg); err != nil {
			log.Printf("[CONFIG] Runtime config not applied: %v", err)
		}
		deps.AdminRepo = repo
	}

	var prefStore prefs.Store = prefs.NewMemoryStore()
	if rdb != nil {
		board = leaderboard.NewCachedStore(board, rdb, time.Duration(cfg.Tunables().LeaderboardCacheSeconds)*time.Second)
		prefStore = prefs.NewRedisStore(rdb)
		deps.AdminSessions = admin.NewRedisSessionStore(rdb)
	} else {
		deps.AdminSessions = admin.NewMemorySessionStore()
	}
	deps.Leaderboard = board
	deps.Prefs = prefStore

	manager := session.NewManager(cfg, rdb, prefStore)
	defer manager.Shutdown()
	deps.Sessions = manager

	manager.StartIdleWorker(ctx)
	ws.StartEventSubscriber(ctx, rdb, deps.Hub)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, deps)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("[SERVER] shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[SERVER] shutdown: %v", err)
		}
	}()

	log.Printf("Starting Dunk Master server on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Println("[SERVER] stopped")
}

// failOrWarn stops the process in production and degrades to in-memory state
// everywhere else.
func failOrWarn(cfg *config.Config, what string, err error) {
	if cfg.IsProduction() {
		log.Fatalf("Failed to initialize %s: %v", what, err)
	}
	log.Printf("[WARN] %s unavailable, falling back to in-memory state: %v", what, err)
}
