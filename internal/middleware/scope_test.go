package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/middleware"
	"github.com/noah-isme/projecthub-api/internal/router"
)

func gateApp(identity *authz.Identity, gate fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: router.ErrorHandler(zerolog.Nop(), false)})
	app.Use(func(c *fiber.Ctx) error {
		if identity != nil {
			c.Locals("identity", identity)
		}
		return c.Next()
	})
	app.Get("/guarded", gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func performGate(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil), -1)
	require.NoError(t, err)
	return resp
}

func TestRequireDeptAdminUnauthenticated(t *testing.T) {
	app := gateApp(nil, middleware.RequireDeptAdmin())
	resp := performGate(t, app)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireDeptAdminMissingScope(t *testing.T) {
	identity := &authz.Identity{Subject: "admin-1", Roles: []authz.Role{authz.RoleDeptAdmin}}
	app := gateApp(identity, middleware.RequireDeptAdmin())
	resp := performGate(t, app)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireDeptAdminWithScope(t *testing.T) {
	dept := "CS"
	college := "C1"
	identity := &authz.Identity{
		Subject: "admin-1",
		Roles:   []authz.Role{authz.RoleDeptAdmin},
		Scope:   authz.Scope{CollegeID: &college, Department: &dept},
	}
	app := gateApp(identity, middleware.RequireDeptAdmin())
	resp := performGate(t, app)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireHeadAdminRejectsDeptAdmin(t *testing.T) {
	dept := "CS"
	college := "C1"
	identity := &authz.Identity{
		Subject: "admin-1",
		Roles:   []authz.Role{authz.RoleDeptAdmin},
		Scope:   authz.Scope{CollegeID: &college, Department: &dept},
	}
	app := gateApp(identity, middleware.RequireHeadAdmin())
	resp := performGate(t, app)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireSuperAdminAdmitsWithoutScope(t *testing.T) {
	identity := &authz.Identity{Subject: "root", Roles: []authz.Role{authz.RoleSuperAdmin}}
	app := gateApp(identity, middleware.RequireSuperAdmin())
	resp := performGate(t, app)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
