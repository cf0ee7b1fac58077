package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Result reports the outcome of a rate-limit check.
type Result struct {
	Allowed    bool
	RetryAfter int
}

// Limiter is a fixed-window counter backed by Redis. Counters expire via TTL;
// nothing deletes them explicitly. A burst straddling a window boundary can
// admit up to twice the limit, which is an accepted property of fixed windows.
//
// The limiter fails open: when the store is unreachable the request is
// allowed and a warning is logged.
type Limiter struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewLimiter constructs a limiter over the shared Redis client.
func NewLimiter(client *redis.Client, logger zerolog.Logger) *Limiter {
	return &Limiter{
		client: client,
		logger: logger.With().Str("component", "rate_limiter").Logger(),
	}
}

// CheckAndIncrement consumes one slot from the window identified by key. When
// the counter has reached the limit the call is denied and RetryAfter carries
// the remaining window in seconds.
//
// The get-then-set pair below is not atomic: two concurrent calls for the
// same key can observe the same count and under-count by one.
func (l *Limiter) CheckAndIncrement(ctx context.Context, key string, limit int, window time.Duration) Result {
	if l.client == nil || limit <= 0 {
		return Result{Allowed: true}
	}

	count, err := l.client.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Warn().Err(err).Str("key", key).Msg("rate limit store unreachable, allowing request")
		return Result{Allowed: true}
	}

	if count >= limit {
		retryAfter := int(math.Ceil(window.Seconds()))
		if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = int(math.Ceil(ttl.Seconds()))
		}
		return Result{Allowed: false, RetryAfter: retryAfter}
	}

	if err := l.client.Set(ctx, key, count+1, window).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("failed to persist rate limit counter, allowing request")
	}

	return Result{Allowed: true}
}
