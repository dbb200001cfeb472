package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// Memory is a map-backed Cache used when no Redis is configured.
// Expired entries are dropped lazily or via PurgeExpired.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry)}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return nil, false
	}
	return e.value, true
}

func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry{value: append([]byte(nil), value...), expiresAt: exp}
}

func (c *Memory) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len counts only non-expired entries.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts := now()
	n := 0
	for _, e := range c.items {
		if !e.expired(ts) {
			n++
		}
	}
	return n
}

// PurgeExpired scans and removes expired entries.
func (c *Memory) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := now()
	for k, e := range c.items {
		if e.expired(ts) {
			delete(c.items, k)
		}
	}
}

func (e entry) expired(ts time.Time) bool {
	return !e.expiresAt.IsZero() && ts.After(e.expiresAt)
}

var _ Cache = (*Memory)(nil)
