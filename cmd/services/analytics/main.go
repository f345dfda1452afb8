package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/events"
	"github.com/soulscroll/luma/internal/handlers"
	"github.com/soulscroll/luma/internal/journal"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/router"
	"github.com/soulscroll/luma/internal/services"
	"github.com/soulscroll/luma/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)
	handlers.Version = Version

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Journal store (read-only for the service)
	logger.Info("Opening journal store", "backend", cfg.Store.Backend, "table", cfg.Store.Table, "migrate", cfg.Store.Migrate)
	store, err := journal.Open(ctx, journal.OptionsFromConfig(cfg.Store))
	if err != nil {
		logger.Fatal("Failed to open journal store", "error", err)
	}
	defer func() { _ = store.Close() }()

	// Analysis-completed events
	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		logger.Fatal("Failed to connect event transport", "type", cfg.Events.Type, "error", err)
	}
	defer func() { _ = publisher.Close() }()
	if publisher.Enabled() {
		logger.Info("Event publishing enabled",
			"type", cfg.Events.Type, "subject_prefix", cfg.Events.SubjectPrefix, "compress", cfg.Events.Compress)
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	analytics := cfg.Analytics
	moodService := services.NewMoodService(logger, journal.NewLoader(store), eventPublisher(publisher), analytics)
	logger.Info("Mood analytics ready",
		"timezone", analytics.Location().String(),
		"default_days", analytics.DefaultDays,
		"window_size", analytics.WindowSize)

	app := router.New(logger, moodService, store, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// eventPublisher avoids handing the service a typed nil
func eventPublisher(p *events.Publisher) services.EventPublisher {
	if !p.Enabled() {
		return nil
	}
	return p
}
