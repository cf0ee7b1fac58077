package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/service"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// ApplicationHandler wires application HTTP routes.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches application endpoints to the router group.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.apply)
	router.Post("/:id/withdraw", h.withdraw)
	router.Post("/:id/decision", h.decide)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	req := dto.ApplicationListRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	}
	if projectID, err := parseQueryInt(c, "project_id"); err == nil && projectID > 0 {
		id := uint(projectID)
		req.ProjectID = &id
	}

	applications, total, err := h.service.List(c.Context(), identityFromContext(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPage(c, "applications retrieved", applications, utils.NewPagination(page, pageSize, total))
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Apply(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) withdraw(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	application, err := h.service.Withdraw(c.Context(), identityFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application withdrawn", application)
}

func (h *ApplicationHandler) decide(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplicationDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Decide(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application decided", application)
}

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrProjectNotOpen):
		return utils.SendError(c, fiber.StatusConflict, "project is not accepting applications")
	case errors.Is(err, service.ErrProjectFull):
		return utils.SendError(c, fiber.StatusConflict, "project has no remaining capacity")
	case errors.Is(err, service.ErrApplicationDecided):
		return utils.SendError(c, fiber.StatusConflict, "application already decided")
	default:
		return err
	}
}
