package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/service"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// AdminHandler wires the moderation surface: scoped project listings,
// moderation actions and the audit trail.
type AdminHandler struct {
	projects   service.ProjectService
	moderation service.ModerationService
	audit      service.AuditService
	logger     zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(projects service.ProjectService, moderation service.ModerationService, audit service.AuditService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		projects:   projects,
		moderation: moderation,
		audit:      audit,
		logger:     logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin endpoints to the router group. The group is
// expected to carry the authentication and scope middleware; the rate
// limiters separate the moderation write quota from the cheaper read quota.
func (h *AdminHandler) Register(router fiber.Router, moderationLimit, readLimit fiber.Handler) {
	if moderationLimit == nil {
		moderationLimit = passthrough
	}
	if readLimit == nil {
		readLimit = passthrough
	}

	router.Get("/projects", readLimit, h.listProjects)
	router.Post("/projects/:id/flag", moderationLimit, h.flagProject)
	router.Post("/projects/:id/unflag", moderationLimit, h.unflagProject)
	router.Post("/projects/:id/archive", moderationLimit, h.archiveProject)
	router.Delete("/comments/:id", moderationLimit, h.removeComment)
	router.Get("/audit-logs", readLimit, h.listAuditLogs)
}

func passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func (h *AdminHandler) listProjects(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	req := dto.ProjectListRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("q"),
	}

	projects, total, err := h.projects.ListScoped(c.Context(), identityFromContext(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPage(c, "projects retrieved", projects, utils.NewPagination(page, pageSize, total))
}

func (h *AdminHandler) flagProject(c *fiber.Ctx) error {
	return h.projectAction(c, "flagged", h.moderation.FlagProject)
}

func (h *AdminHandler) unflagProject(c *fiber.Ctx) error {
	return h.projectAction(c, "unflagged", h.moderation.UnflagProject)
}

func (h *AdminHandler) archiveProject(c *fiber.Ctx) error {
	return h.projectAction(c, "archived", h.moderation.ArchiveProject)
}

type projectActionFunc func(ctx context.Context, identity *authz.Identity, projectID uint, req dto.ModerationRequest) (dto.ProjectResponse, error)

func (h *AdminHandler) projectAction(c *fiber.Ctx, verb string, action projectActionFunc) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModerationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := action(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project "+verb, project)
}

func (h *AdminHandler) removeComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModerationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.moderation.RemoveComment(c.Context(), identityFromContext(c), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comment removed", fiber.Map{"id": id})
}

func (h *AdminHandler) listAuditLogs(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	req := dto.AuditListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    c.Query("actor_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		ScopeID:    c.Query("scope_id"),
	}

	entries, total, err := h.audit.List(c.Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPage(c, "audit entries retrieved", entries, utils.NewPagination(page, pageSize, total))
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrCommentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "comment not found")
	default:
		return err
	}
}
