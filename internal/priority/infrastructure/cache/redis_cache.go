// Package cache provides ResultCache implementations: Redis-backed for
// deployments, an in-memory stand-in for tests and cache-less runs, and a
// circuit-breaker decorator for flaky backends.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/callsheethq/callsheet/internal/priority/domain"
)

// invalidateBatchSize bounds how many keys a single DEL carries.
const invalidateBatchSize = 100

// RedisResultCache implements domain.ResultCache on Redis. Pattern
// invalidation uses SCAN so it never blocks the server on large keyspaces.
type RedisResultCache struct {
	client *redis.Client
}

// NewRedisResultCache creates a Redis-backed result cache.
func NewRedisResultCache(client *redis.Client) *RedisResultCache {
	return &RedisResultCache{client: client}
}

// Get retrieves a cached value, reporting domain.ErrCacheMiss when absent.
func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Invalidate removes every key matching the wildcard pattern.
func (c *RedisResultCache) Invalidate(ctx context.Context, pattern string) error {
	var batch []string
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= invalidateBatchSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

var _ domain.ResultCache = (*RedisResultCache)(nil)
