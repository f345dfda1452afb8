package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for analytics requests
	DefaultRequestTimeout = 10 * time.Second

	// HealthCheckTimeout bounds the store ping behind /health
	HealthCheckTimeout = 2 * time.Second

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second
)

// Broker Timeouts
const (
	// BrokerConnectTimeout is the timeout for establishing broker connections
	BrokerConnectTimeout = 5 * time.Second

	// DefaultPublishTimeout is the default timeout for publishing one event
	DefaultPublishTimeout = 2 * time.Second
)

// =============================================================================
// Analytics Bounds
// =============================================================================

const (
	// DefaultLookbackDays is the default ?days for trend and outlier views
	DefaultLookbackDays = 30

	// MaxLookbackDays is the largest accepted ?days
	MaxLookbackDays = 365

	// DefaultWindowSize is the default rolling window
	DefaultWindowSize = 7

	// MaxWindowSize is the largest accepted ?window
	MaxWindowSize = 90
)

// =============================================================================
// Response Headers
// =============================================================================

const (
	// DegradedHeader is set when a response carries the fallback shape
	DegradedHeader = "X-Analytics-Degraded"

	// DegradedDataUnavailable is the DegradedHeader value for store outages
	DegradedDataUnavailable = "data_unavailable"

	// RetryAfterSeconds is advertised via Retry-After on degraded responses
	RetryAfterSeconds = 5
)

// =============================================================================
// Event Transport Constants
// =============================================================================

// TransportType represents the broker behind the event publisher
type TransportType string

const (
	// TransportTypeNATS represents NATS JetStream
	TransportTypeNATS TransportType = "nats"

	// TransportTypeRedis represents Redis Streams
	TransportTypeRedis TransportType = "redis"

	// TransportTypeKafka represents Apache Kafka
	TransportTypeKafka TransportType = "kafka"

	// TransportTypeMemory represents an in-process channel (for testing)
	TransportTypeMemory TransportType = "memory"
)

// DefaultBufferSize is the default buffer size for in-memory channels
const DefaultBufferSize = 1000
