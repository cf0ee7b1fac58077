package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/service"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// ProjectHandler wires project HTTP routes.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register attaches project endpoints. Catalogue reads stay public;
// mutations require the auth middleware.
func (h *ProjectHandler) Register(router fiber.Router, auth fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", auth, h.create)
	router.Patch("/:id", auth, h.update)
	router.Delete("/:id", auth, h.delete)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	req := dto.ProjectListRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("q"),
	}

	projects, total, err := h.service.List(c.Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPage(c, "projects retrieved", projects, utils.NewPagination(page, pageSize, total))
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.service.Create(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", project)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.service.Update(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project updated", project)
}

func (h *ProjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "project deleted", fiber.Map{"id": id})
}

func (h *ProjectHandler) handleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrProjectNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	}
	if !isValidationError(err) {
		requestLogger(h.logger, c).Debug().Err(err).Msg("project request failed")
	}
	return err
}
