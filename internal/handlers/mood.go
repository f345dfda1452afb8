package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/middleware"
	"github.com/soulscroll/luma/internal/models"
	"github.com/soulscroll/luma/internal/services"
	"github.com/soulscroll/luma/internal/utils"
)

// MoodTrend handles GET /v1/mood/trend?days=30&window=7
func (h *Handler) MoodTrend(c *fiber.Ctx) error {
	var req models.MoodTrendRequest
	var err error

	req.UserID = middleware.UserID(c)
	if req.Days, err = positiveQueryInt(c, "days"); err != nil {
		return err
	}
	if req.WindowSize, err = positiveQueryInt(c, "window"); err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.moodService.GetMoodTrend(ctx, req.UserID, req.Days, req.WindowSize)
	return h.respond(c, resp, err)
}

// MoodOutliers handles GET /v1/mood/outliers?days=30
func (h *Handler) MoodOutliers(c *fiber.Ctx) error {
	var req models.MoodOutliersRequest
	var err error

	req.UserID = middleware.UserID(c)
	if req.Days, err = positiveQueryInt(c, "days"); err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.moodService.GetMoodOutliers(ctx, req.UserID, req.Days)
	return h.respond(c, resp, err)
}

// MoodPatterns handles GET /v1/mood/patterns
func (h *Handler) MoodPatterns(c *fiber.Ctx) error {
	req := models.MoodPatternsRequest{UserID: middleware.UserID(c)}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.moodService.GetPatterns(ctx, req.UserID)
	return h.respond(c, resp, err)
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.requestTimeout)
}

// respond renders resp. A DATA_UNAVAILABLE error still renders the fallback
// body with 200 and marks the response as degraded; any other error is left
// to the error handler.
func (h *Handler) respond(c *fiber.Ctx, resp interface{}, err error) error {
	if err == nil {
		return c.JSON(resp)
	}
	if services.HasCode(err, services.ErrCodeDataUnavailable) {
		c.Set(utils.DegradedHeader, utils.DegradedDataUnavailable)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(utils.RetryAfterSeconds))
		return c.JSON(resp)
	}
	return err
}

// positiveQueryInt parses an optional integer query parameter.
// Absent yields 0; anything below 1 is rejected.
func positiveQueryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, services.NewServiceErrorWithDetails(services.ErrCodeInvalidRequest,
			name+" must be a positive integer",
			map[string]interface{}{"parameter": name, "value": raw})
	}
	return v, nil
}
