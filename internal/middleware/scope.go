package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/projecthub-api/internal/authz"
)

// RequireDeptAdmin admits department admins with a complete scope assignment
// and any higher role. Errors flow to the central error handler.
func RequireDeptAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.RequireDeptAdmin(IdentityFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireHeadAdmin admits head admins with a college assignment and any
// higher role.
func RequireHeadAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.RequireHeadAdmin(IdentityFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireSuperAdmin admits super admins only.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.RequireSuperAdmin(IdentityFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}
