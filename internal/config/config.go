package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings. Values come from the environment (optionally
// a .env file) and may be overridden by command flags.
type Config struct {
	Port     string
	DBPath   string
	DBLogSQL bool

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// RedisAddr enables the Redis board cache when set; otherwise an
	// in-process cache is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BoardCacheTTL time.Duration

	LogLevel  string
	LogFormat string

	RateLimitRPS   float64
	RateLimitBurst int

	PersistTimeout time.Duration
	SeedOnStart    bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "8008"),
		DBPath:   getEnv("DB_PATH", "admin-dashboard.db"),
		DBLogSQL: getBool("DB_LOG_SQL", false),

		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "admin-dashboard-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "admin-dashboard-clients"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		BoardCacheTTL: getDuration("BOARD_CACHE_TTL", 30*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),

		PersistTimeout: getDuration("PERSIST_TIMEOUT", 10*time.Second),
		SeedOnStart:    getBool("SEED_ON_START", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
