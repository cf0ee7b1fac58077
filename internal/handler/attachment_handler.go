package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/service"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// AttachmentHandler wires attachment upload and listing routes.
type AttachmentHandler struct {
	service service.AttachmentService
	logger  zerolog.Logger
}

// NewAttachmentHandler constructs the handler.
func NewAttachmentHandler(service service.AttachmentService, logger zerolog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: service,
		logger:  logger.With().Str("component", "attachment_handler").Logger(),
	}
}

// Register attaches attachment endpoints.
func (h *AttachmentHandler) Register(projects fiber.Router, attachments fiber.Router, auth fiber.Handler) {
	projects.Get("/:id/attachments", auth, h.list)
	projects.Post("/:id/attachments", auth, h.upload)
	attachments.Delete("/:id", h.delete)
}

func (h *AttachmentHandler) list(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attachments, err := h.service.ListByProject(c.Context(), projectID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachments retrieved", attachments)
}

func (h *AttachmentHandler) upload(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	var taskID *uint
	if raw, err := parseQueryInt(c, "task_id"); err == nil && raw > 0 {
		id := uint(raw)
		taskID = &id
	}

	attachment, err := h.service.Upload(c.Context(), identityFromContext(c), projectID, taskID, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment uploaded", attachment)
}

func (h *AttachmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachment deleted", fiber.Map{"id": id})
}

func (h *AttachmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAttachmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attachment not found")
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrAttachmentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
	case errors.Is(err, service.ErrAttachmentTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "file type is not allowed")
	default:
		return err
	}
}
