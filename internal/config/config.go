package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Sigma-Eleven/model/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	LogLevel      string
	LogJSON       bool
	DatabaseURL   string // optional, enables result storage
	RedisAddr     string // optional, enables the spectator feed and rate limiting
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	AllowedOrigin string

	// Game defaults
	TurnTimeout         time.Duration
	DiscussionMaxRounds int
	VoteMaxRetries      int
	Seed                uint64
	GameTTL             time.Duration // finished games stay queryable this long

	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int // start/stop calls per game id
	GameRateWindow time.Duration
}

// Load reads the server configuration from env (and .env if present)
func Load() *Config {
	cfg := load()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	return cfg
}

// LoadConsole reads the configuration for a local console game; nothing is required
func LoadConsole() *Config {
	return load()
}

func load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:             port,
		LogLevel:            logLevel,
		LogJSON:             os.Getenv("LOG_JSON") == "true",
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envInt("REDIS_DB", 0),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AllowedOrigin:       os.Getenv("ALLOWED_ORIGIN"),
		TurnTimeout:         time.Duration(envInt("TURN_TIMEOUT_SECONDS", 60)) * time.Second,
		DiscussionMaxRounds: envInt("DISCUSSION_MAX_ROUNDS", 3),
		VoteMaxRetries:      envInt("VOTE_MAX_RETRIES", 2),
		Seed:                uint64(envInt("GAME_SEED", 0)),
		GameTTL:             time.Duration(envInt("GAME_TTL_MINUTES", 60)) * time.Minute,
		APIRateLimit:        envInt("API_RATE_LIMIT", 10),
		APIRateWindow:       time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		GameRateLimit:       envInt("GAME_RATE_LIMIT", 5),
		GameRateWindow:      time.Duration(envInt("GAME_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

// envInt parses a positive int, falling back to def
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
