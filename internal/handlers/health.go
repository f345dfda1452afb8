package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/models"
	"github.com/soulscroll/luma/internal/utils"
)

// Health handles health check requests. An unreachable store reports
// "degraded" with 503.
func (h *Handler) Health(c *fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
	}

	if h.store == nil {
		return c.JSON(resp)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.HealthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Journal store health check failed", "error", err)
		resp.Status = "degraded"
		resp.Store = "unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	resp.Store = "ok"
	return c.JSON(resp)
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
