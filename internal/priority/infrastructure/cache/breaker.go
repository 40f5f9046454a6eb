package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/callsheethq/callsheet/internal/priority/domain"
)

// BreakerCache decorates a ResultCache with a circuit breaker. The cache is
// advisory, so a tripped breaker degrades reads to a miss and the engine
// recomputes instead of waiting on a struggling backend.
type BreakerCache struct {
	inner   domain.ResultCache
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewBreakerCache wraps a cache with circuit-breaker protection.
func NewBreakerCache(inner domain.ResultCache, logger *slog.Logger) *BreakerCache {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:     "result-cache",
		Interval: 10 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("cache circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerCache{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// Get reads through the breaker; an open circuit reads as a miss.
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.breaker.Execute(func() ([]byte, error) {
		val, err := c.inner.Get(ctx, key)
		if err == domain.ErrCacheMiss {
			// A miss is a healthy outcome, not a backend failure.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, domain.ErrCacheMiss
	}
	return val, nil
}

// Set writes through the breaker.
func (c *BreakerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.inner.Set(ctx, key, value, ttl)
	})
	return err
}

// Invalidate passes through the breaker.
func (c *BreakerCache) Invalidate(ctx context.Context, pattern string) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.inner.Invalidate(ctx, pattern)
	})
	return err
}

var _ domain.ResultCache = (*BreakerCache)(nil)
