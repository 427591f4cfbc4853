package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/dunkmaster/backend/internal/game"
)

type Config struct {
	// mu guards the fields listed in Tunables once the server is running.
	mu sync.RWMutex

	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Sessions
	SessionTTLMinutes      int
	SessionIdleSeconds     int
	IdleWorkerPollInterval int

	// Simulation. Game tuning is per frame at game.TickRate frames a second, so
	// any other TickRate fast-forwards or slows the whole game, respawn delay included.
	WorldWidth    float64
	WorldHeight   float64
	TickRate      int
	SnapshotEvery int

	// Leaderboard
	LeaderboardLimit        int
	LeaderboardCacheSeconds int

	// Audio (terminal client)
	AudioSampleRate int
	AudioRecordPath string

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/dunkmaster?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Sessions
		SessionTTLMinutes:      getEnvInt("SESSION_TTL_MINUTES", 120),
		SessionIdleSeconds:     getEnvInt("SESSION_IDLE_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 5),

		// Simulation
		WorldWidth:    getEnvFloat("WORLD_WIDTH", 400),
		WorldHeight:   getEnvFloat("WORLD_HEIGHT", 800),
		TickRate:      getEnvInt("TICK_RATE", 60),
		SnapshotEvery: getEnvInt("SNAPSHOT_EVERY", 2),

		// Leaderboard
		LeaderboardLimit:        getEnvInt("LEADERBOARD_LIMIT", 20),
		LeaderboardCacheSeconds: getEnvInt("LEADERBOARD_CACHE_SECONDS", 30),

		// Audio
		AudioSampleRate: getEnvInt("AUDIO_SAMPLE_RATE", 44100),
		AudioRecordPath: getEnv("AUDIO_RECORD_PATH", ""),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}

	if cfg.TickRate != game.TickRate {
		log.Printf("[CONFIG] TICK_RATE=%d runs the game at %.2fx speed", cfg.TickRate, cfg.GameSpeed())
	}
	return cfg
}

// GameSpeed is how fast the game plays relative to real time.
func (c *Config) GameSpeed() float64 {
	return float64(c.TickRate) / game.TickRate
}

// Tunables are the settings admins can change while the server runs.
type Tunables struct {
	LeaderboardLimit        int
	LeaderboardCacheSeconds int
	SessionIdleSeconds      int
	SnapshotEvery           int
}

// Tunables returns the current runtime-adjustable settings.
func (c *Config) Tunables() Tunables {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Tunables{
		LeaderboardLimit:        c.LeaderboardLimit,
		LeaderboardCacheSeconds: c.LeaderboardCacheSeconds,
		SessionIdleSeconds:      c.SessionIdleSeconds,
		SnapshotEvery:           c.SnapshotEvery,
	}
}

// SetTunables replaces the runtime-adjustable settings.
func (c *Config) SetTunables(t Tunables) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LeaderboardLimit = t.LeaderboardLimit
	c.LeaderboardCacheSeconds = t.LeaderboardCacheSeconds
	c.SessionIdleSeconds = t.SessionIdleSeconds
	c.SnapshotEvery = t.SnapshotEvery
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
