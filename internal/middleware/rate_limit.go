package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/observability"
	"github.com/noah-isme/projecthub-api/internal/ratelimit"
)

// RateLimit enforces a fixed-window quota per caller for the given endpoint
// class. The key prefers the authenticated subject and falls back to the
// client address for anonymous traffic.
func RateLimit(limiter *ratelimit.Limiter, class string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return func(c *fiber.Ctx) error {
		caller := c.IP()
		if identity := IdentityFromContext(c); identity != nil && identity.Subject != "" {
			caller = identity.Subject
		}

		key := fmt.Sprintf("ratelimit:%s:%s", class, caller)
		result := limiter.CheckAndIncrement(c.Context(), key, max, window)
		if !result.Allowed {
			observability.RateLimitDecisions().WithLabelValues(class, "denied").Inc()
			retryAfter := result.RetryAfter
			if retryAfter < 1 {
				retryAfter = 1
			}
			return apperr.RateLimited("rate limit exceeded", retryAfter)
		}

		observability.RateLimitDecisions().WithLabelValues(class, "allowed").Inc()
		return c.Next()
	}
}
