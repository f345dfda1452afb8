package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/models"
	"github.com/soulscroll/luma/internal/services"
	"github.com/soulscroll/luma/internal/utils"
)

// StatusForCode maps a service error code to an HTTP status
func StatusForCode(code string) int {
	switch code {
	case services.ErrCodeNotAuthenticated:
		return fiber.StatusUnauthorized
	case services.ErrCodeInvalidRequest:
		return fiber.StatusBadRequest
	case services.ErrCodeDataUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every unhandled error as models.ErrorResponse
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
		}

		var svcErr *services.ServiceError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &svcErr):
			status = StatusForCode(svcErr.Code)
			detail.Code = svcErr.Code
			detail.Message = svcErr.Message
			detail.Details = svcErr.Details
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			detail.Code = codeForStatus(fiberErr.Code)
			detail.Message = fiberErr.Message
		}

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err,
		}
		log := logger.WithContext(c.UserContext())
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error", fields...)
		} else {
			log.Debug("Request rejected", fields...)
		}

		if svcErr != nil && svcErr.Retryable {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(utils.RetryAfterSeconds))
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}

// codeForStatus turns 404 into NOT_FOUND, 405 into METHOD_NOT_ALLOWED, ...
func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
