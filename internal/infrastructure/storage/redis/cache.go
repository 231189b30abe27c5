package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sentrader/internal/application/port"
)

// Cache is the Redis-backed TTL store used for sentiment snapshots and
// backtest results.
type Cache struct {
	rdb    *redis.Client
	prefix string
}

func NewCache(rdb *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = "sentrader"
	}
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefix+":"+key, value, ttl).Err()
}

var _ port.Cache = (*Cache)(nil)
