package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsheethq/callsheet/internal/priority/domain"
)

// flakyCache fails every operation until healed.
type flakyCache struct {
	inner  *MemoryResultCache
	broken bool
}

func (c *flakyCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.broken {
		return nil, errors.New("backend unreachable")
	}
	return c.inner.Get(ctx, key)
}

func (c *flakyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.broken {
		return errors.New("backend unreachable")
	}
	return c.inner.Set(ctx, key, value, ttl)
}

func (c *flakyCache) Invalidate(ctx context.Context, pattern string) error {
	if c.broken {
		return errors.New("backend unreachable")
	}
	return c.inner.Invalidate(ctx, pattern)
}

func TestBreakerCache(t *testing.T) {
	ctx := context.Background()

	t.Run("passes reads and writes through a healthy backend", func(t *testing.T) {
		backend := &flakyCache{inner: NewMemoryResultCache()}
		c := NewBreakerCache(backend, nil)

		require.NoError(t, c.Set(ctx, "tasks:priority:all:all", []byte("payload"), time.Hour))

		val, err := c.Get(ctx, "tasks:priority:all:all")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), val)
	})

	t.Run("reports a plain miss without tripping", func(t *testing.T) {
		c := NewBreakerCache(&flakyCache{inner: NewMemoryResultCache()}, nil)

		for i := 0; i < 10; i++ {
			_, err := c.Get(ctx, "tasks:priority:absent:all")
			assert.ErrorIs(t, err, domain.ErrCacheMiss)
		}
	})

	t.Run("an open circuit reads as a miss", func(t *testing.T) {
		backend := &flakyCache{inner: NewMemoryResultCache(), broken: true}
		c := NewBreakerCache(backend, nil)

		for i := 0; i < 5; i++ {
			_, err := c.Get(ctx, "tasks:priority:all:all")
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrCacheMiss, "backend errors surface until the breaker opens")
		}

		// Breaker is open; heal the backend to prove calls are short-circuited.
		backend.broken = false
		_, err := c.Get(ctx, "tasks:priority:all:all")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("an open circuit rejects writes", func(t *testing.T) {
		backend := &flakyCache{inner: NewMemoryResultCache(), broken: true}
		c := NewBreakerCache(backend, nil)

		for i := 0; i < 5; i++ {
			_ = c.Set(ctx, "tasks:priority:all:all", []byte("x"), time.Hour)
		}

		backend.broken = false
		err := c.Set(ctx, "tasks:priority:all:all", []byte("x"), time.Hour)
		assert.Error(t, err)
		assert.Equal(t, 0, backend.inner.Len(), "short-circuited writes never reach the backend")
	})
}
