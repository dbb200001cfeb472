package cache

import (
	"context"
	"time"
)

// Cache stores serialized snapshots by key with an optional TTL.
// Misses and backend errors look the same to callers: both mean "go to the
// source of truth".
type Cache interface {
	// Get returns the value and whether it was present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores the value. If ttl <= 0, the entry does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a key if present.
	Delete(ctx context.Context, key string)
}
