package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/config"
	"github.com/noah-isme/projecthub-api/internal/profile"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// HealthResponse represents the payload returned by the liveness endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// ReadinessResponse reports each dependency check outcome.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	cfg      config.Config
	db       *gorm.DB
	redis    *redis.Client
	profiles *profile.Client
	logger   zerolog.Logger
}

// NewHealthHandler constructs the handler. Any dependency may be nil; nil
// dependencies are skipped during readiness checks.
func NewHealthHandler(cfg config.Config, db *gorm.DB, redisClient *redis.Client, profiles *profile.Client, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:      cfg,
		db:       db,
		redis:    redisClient,
		profiles: profiles,
		logger:   logger.With().Str("component", "health_handler").Logger(),
	}
}

// Register attaches health endpoints.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.live)
	router.Get("/health/ready", h.ready)
}

func (h *HealthHandler) live(c *fiber.Ctx) error {
	payload := HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Service:     h.cfg.AppName,
		Environment: h.cfg.AppEnv,
	}
	return utils.SendSuccess(c, "service healthy", payload)
}

func (h *HealthHandler) ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	checks["database"] = h.checkDatabase(ctx)
	checks["redis"] = h.checkRedis(ctx)
	checks["profile_service"] = h.checkProfiles(ctx)
	for _, status := range checks {
		if status == "down" {
			healthy = false
		}
	}

	payload := ReadinessResponse{Status: "ready", Checks: checks}
	if !healthy {
		payload.Status = "degraded"
		h.logger.Warn().Interface("checks", checks).Msg("readiness check degraded")
		return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "service degraded", payload)
	}
	return utils.SendSuccess(c, "service ready", payload)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return "skipped"
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return "down"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if h.redis == nil {
		return "skipped"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) checkProfiles(ctx context.Context) string {
	if h.profiles == nil {
		return "skipped"
	}
	if err := h.profiles.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
