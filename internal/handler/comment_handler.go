package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/service"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// CommentHandler wires comment HTTP routes.
type CommentHandler struct {
	service service.CommentService
	logger  zerolog.Logger
}

// NewCommentHandler constructs the handler.
func NewCommentHandler(service service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger.With().Str("component", "comment_handler").Logger(),
	}
}

// Register attaches comment endpoints. Comment listing is public alongside
// the project catalogue; creation and removal require a token.
func (h *CommentHandler) Register(projects fiber.Router, comments fiber.Router, auth fiber.Handler) {
	projects.Get("/:id/comments", h.list)
	projects.Post("/:id/comments", auth, h.create)
	comments.Delete("/:id", h.delete)
}

func (h *CommentHandler) list(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, pageSize := pageParams(c)
	comments, total, err := h.service.List(c.Context(), projectID, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendPage(c, "comments retrieved", comments, utils.NewPagination(page, pageSize, total))
}

func (h *CommentHandler) create(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.Create(c.Context(), identityFromContext(c), projectID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment created", comment)
}

func (h *CommentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comment deleted", fiber.Map{"id": id})
}

func (h *CommentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "comment not found")
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrCommentEmpty):
		return utils.SendError(c, fiber.StatusBadRequest, "comment body is empty after sanitization")
	default:
		return err
	}
}
