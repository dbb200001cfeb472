package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PERSIST_TIMEOUT", "")

	cfg := Load()
	require.Equal(t, "8008", cfg.Port)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 10*time.Second, cfg.PersistTimeout)
	require.True(t, cfg.SeedOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BOARD_CACHE_TTL", "1m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, time.Minute, cfg.BoardCacheTTL)
	require.Equal(t, 2.5, cfg.RateLimitRPS)
	require.False(t, cfg.SeedOnStart)
	require.Equal(t, 0, cfg.RedisDB)
}
