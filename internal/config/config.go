package config

import (
	"os"
	"strconv"
	"time"

	"learningleague/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	LogJSON     bool

	// Redis (rate limiter); empty addr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// API rate limits
	APIRateLimit  int
	APIRateWindow time.Duration

	// Stricter per-IP window for login attempts
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Per-user window for progress commands
	CommandRateLimit  int
	CommandRateWindow time.Duration

	// Progression policy knobs
	WeeklyXPThreshold int   // minimum weekly XP before the penalty box triggers
	StartingGems      int64 // balance granted to newly provisioned students
}

// Load reads configuration from the environment. A .env file is
// honored when present so local development needs no exported vars.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			authRateLimit = n
		}
	}

	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	commandRateLimit := 30
	if v := os.Getenv("COMMAND_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			commandRateLimit = n
		}
	}

	commandRateWindow := time.Minute
	if v := os.Getenv("COMMAND_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			commandRateWindow = time.Duration(n) * time.Second
		}
	}

	weeklyThreshold := 10
	if v := os.Getenv("WEEKLY_XP_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			weeklyThreshold = n
		}
	}

	startingGems := int64(50)
	if v := os.Getenv("STARTING_GEMS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			startingGems = n
		}
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		LogLevel:          envOr("LOG_LEVEL", "info"),
		LogJSON:           os.Getenv("LOG_JSON") == "true",
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		APIRateLimit:      apiRateLimit,
		APIRateWindow:     apiRateWindow,
		AuthRateLimit:     authRateLimit,
		AuthRateWindow:    authRateWindow,
		CommandRateLimit:  commandRateLimit,
		CommandRateWindow: commandRateWindow,
		WeeklyXPThreshold: weeklyThreshold,
		StartingGems:      startingGems,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
