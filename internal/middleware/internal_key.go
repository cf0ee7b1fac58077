package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/projecthub-api/internal/utils"
)

// InternalKey protects operator-only endpoints with a shared header key.
// When no key is configured the surface is closed.
func InternalKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return utils.SendError(c, fiber.StatusNotFound, "not found")
		}
		presented := c.Get("X-Internal-Key")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid internal key")
		}
		return c.Next()
	}
}
