package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/projecthub-api/internal/config"
	"github.com/noah-isme/projecthub-api/internal/handler"
	"github.com/noah-isme/projecthub-api/internal/middleware"
	"github.com/noah-isme/projecthub-api/internal/observability"
	"github.com/noah-isme/projecthub-api/internal/ratelimit"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler      *handler.HealthHandler
	ProjectHandler     *handler.ProjectHandler
	ApplicationHandler *handler.ApplicationHandler
	TaskHandler        *handler.TaskHandler
	AttachmentHandler  *handler.AttachmentHandler
	CommentHandler     *handler.CommentHandler
	AdminHandler       *handler.AdminHandler
	AuthMiddleware     fiber.Handler
	RateLimiter        *ratelimit.Limiter
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(api)
	}
	api.Get("/health/metrics", middleware.InternalKey(cfg.InternalAPIKey), observability.MetricsHandler())

	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Open catalogue reads stay public; everything else requires a token.
	if deps.ProjectHandler != nil {
		projects := api.Group("/projects")
		deps.ProjectHandler.Register(projects, authMiddleware)

		if deps.TaskHandler != nil {
			tasks := api.Group("/tasks", authMiddleware)
			deps.TaskHandler.Register(projects, tasks, authMiddleware)
		}
		if deps.AttachmentHandler != nil {
			attachments := api.Group("/attachments", authMiddleware)
			deps.AttachmentHandler.Register(projects, attachments, authMiddleware)
		}
		if deps.CommentHandler != nil {
			comments := api.Group("/comments", authMiddleware)
			deps.CommentHandler.Register(projects, comments, authMiddleware)
		}
	}

	if deps.ApplicationHandler != nil {
		applications := api.Group("/applications", authMiddleware)
		deps.ApplicationHandler.Register(applications)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", authMiddleware, middleware.RequireDeptAdmin())

		var moderationLimit, readLimit fiber.Handler
		if deps.RateLimiter != nil {
			moderationLimit = middleware.RateLimit(deps.RateLimiter, "moderation", cfg.ModerationRateLimit, cfg.ModerationRateWindow)
			readLimit = middleware.RateLimit(deps.RateLimiter, "admin_read", cfg.AdminReadRateLimit, cfg.AdminReadRateWindow)
		}
		deps.AdminHandler.Register(admin, moderationLimit, readLimit)
	}
}
