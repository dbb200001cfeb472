package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test:"), mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "board")
	require.False(t, ok)

	c.Set(ctx, "board", []byte(`{"columns":[]}`), time.Minute)
	require.True(t, mr.Exists("test:board"))

	v, ok := c.Get(ctx, "board")
	require.True(t, ok)
	require.JSONEq(t, `{"columns":[]}`, string(v))

	c.Delete(ctx, "board")
	_, ok = c.Get(ctx, "board")
	require.False(t, ok)
}

func TestRedis_TTL(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Second)
	mr.FastForward(2 * time.Second)
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
}

func TestRedis_ServerDownIsAMiss(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), 0)
	mr.Close()

	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
}
