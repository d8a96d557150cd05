package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis read-through cache for serialized query responses.
// A nil *Cache disables caching; every lookup falls through to the
// loader.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a Redis client. Returns nil when rdb is nil so
// callers can pass the result straight through.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetOrLoad returns the cached bytes for key, or runs load and caches
// its result. Redis failures degrade to loading directly.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func() ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load()
	}

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		return data, nil
	}

	data, err := load()
	if err != nil {
		return nil, err
	}

	c.rdb.Set(ctx, key, data, c.ttl)
	return data, nil
}
