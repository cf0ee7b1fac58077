package router

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/middleware"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

// ErrorHandler converts errors escaping handlers into the response envelope.
// Internal error details are only echoed back in development.
func ErrorHandler(logger zerolog.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr := apperr.From(err); appErr != nil {
			if appErr.Status() >= fiber.StatusInternalServerError {
				logger.Error().Err(err).
					Str("correlation_id", middleware.GetCorrelationID(c)).
					Str("path", c.Path()).
					Msg("request failed")
			}
			if appErr.Kind == apperr.KindRateLimited {
				c.Set("Retry-After", fmt.Sprintf("%d", appErr.RetryAfter))
				return utils.SendErrorWithDetails(c, appErr.Status(), appErr.Message, "rate_limited", fiber.Map{
					"retry_after": appErr.RetryAfter,
				})
			}
			return utils.SendError(c, appErr.Status(), appErr.Message)
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := make(fiber.Map, len(validationErrs))
			for _, fieldErr := range validationErrs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
			return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, "validation failed", "validation_failed", details)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}

		logger.Error().Err(err).
			Str("correlation_id", middleware.GetCorrelationID(c)).
			Str("path", c.Path()).
			Msg("unhandled error")

		message := "internal server error"
		if development {
			message = err.Error()
		}
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
