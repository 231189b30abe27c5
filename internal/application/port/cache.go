package port

import (
	"context"
	"time"
)

// Cache is an injected key->value store with explicit expiry. Sentiment
// snapshots and backtest results live behind it; tests drive an in-memory
// implementation with a fake clock, production uses Redis.
type Cache interface {
	// Get returns the value and whether the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
