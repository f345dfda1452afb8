package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/handlers"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/middleware"
	"github.com/soulscroll/luma/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, moodService *services.MoodService, store handlers.Pinger, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, moodService, store, cfg.Server.RequestTimeout)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID," + userHeader(cfg),
		ExposeHeaders: "X-Request-ID,X-Analytics-Degraded,Retry-After",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API v1 routes: API key, then user identity
	v1 := app.Group("/v1",
		middleware.APIKeyAuth(logger, cfg.Auth),
		middleware.UserIdentity(logger, cfg.Auth.UserHeader),
	)

	mood := v1.Group("/mood")
	mood.Get("/trend", h.MoodTrend)
	mood.Get("/outliers", h.MoodOutliers)
	mood.Get("/patterns", h.MoodPatterns)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, moodService *services.MoodService, store handlers.Pinger, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Luma Analytics",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.RequestTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, moodService, store, cfg)

	return app
}

func userHeader(cfg config.Config) string {
	if cfg.Auth.UserHeader == "" {
		return middleware.DefaultUserHeader
	}
	return cfg.Auth.UserHeader
}
