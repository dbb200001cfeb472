package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Redis is a Cache backed by a Redis server, shared across API instances.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps client; every key is namespaced with prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (c *Redis) key(k string) string {
	return c.prefix + k
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("key", key).Warn("redis get failed, falling back to store")
		}
		return nil, false
	}
	return data, true
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("redis set failed")
	}
}

func (c *Redis) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("redis delete failed")
	}
}

var _ Cache = (*Redis)(nil)
