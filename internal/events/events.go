// Package events publishes analysis-completed notifications to a message
// broker so downstream consumers (push notifications, dashboards) can react
// without polling the analytics API.
package events

import (
	"context"
	"time"
)

// Kind identifies which analysis produced an event
type Kind string

const (
	KindTrend    Kind = "trend"
	KindOutliers Kind = "outliers"
	KindPatterns Kind = "patterns"
)

// AnalysisCompleted is emitted after every analytics request.
// It never carries entry content.
type AnalysisCompleted struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	UserID         string    `json:"userId"`
	TotalEntries   int       `json:"totalEntries"`
	OutlierCount   int       `json:"outlierCount"`
	TrendDirection string    `json:"trendDirection,omitempty"`
	Degraded       bool      `json:"degraded"`
	DurationMs     int64     `json:"durationMs"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Transport delivers encoded events to a broker subject/topic
type Transport interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles incoming messages
type MessageHandler func(data []byte) error
