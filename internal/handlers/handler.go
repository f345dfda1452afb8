package handlers

import (
	"context"
	"time"

	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/services"
	"github.com/soulscroll/luma/internal/utils"
)

// Version is reported by /health
var Version = "1.0.0"

// Pinger reports whether the journal store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains all HTTP handlers
type Handler struct {
	logger         *logging.Logger
	moodService    *services.MoodService
	store          Pinger
	requestTimeout time.Duration
}

// New creates a new handler instance. store may be nil, in which case
// /health does not ping it.
func New(logger *logging.Logger, moodService *services.MoodService, store Pinger, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = utils.DefaultRequestTimeout
	}
	return &Handler{
		logger:         logger,
		moodService:    moodService,
		store:          store,
		requestTimeout: requestTimeout,
	}
}
