package memory

import (
	"context"
	"sync"
	"time"

	"sentrader/internal/application/port"
)

type entry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// Cache is an in-memory TTL store. The clock is injectable so tests can
// control expiry deterministically.
type Cache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

func New() *Cache {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		now:     now,
		entries: make(map[string]entry),
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

var _ port.Cache = (*Cache)(nil)
