// Package outlier flags journal entries whose emotion score lies unusually far
// from a reference mean, measured in standard deviations.
//
// Two baselines coexist. Rolling mode compares each point with its own trailing
// window and backs the trend view. Global mode compares each point with the
// whole-series mean and backs the standalone outlier report. Both share the
// same thresholds.
package outlier

import (
	"time"

	"github.com/soulscroll/luma/internal/analytics"
)

// Type is the side of the mean an entry falls on
type Type string

const (
	TypePositive Type = "positive"
	TypeNegative Type = "negative"
)

// Severity tiers an outlier by z-score
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

const (
	// DefaultThreshold is the z-score (exclusive) above which a point is an outlier
	DefaultThreshold = 2.0

	// DefaultHighThreshold is the z-score (exclusive) above which an outlier is high severity
	DefaultHighThreshold = 3.0

	// DefaultMinEntries is the minimum series length for global detection
	DefaultMinEntries = 3

	// PreviewLength caps how much entry content may leave the service
	PreviewLength = 100
)

// Config holds detector configuration
type Config struct {
	Threshold     float64
	HighThreshold float64
	MinEntries    int
}

// DefaultConfig returns default detector configuration
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		HighThreshold: DefaultHighThreshold,
		MinEntries:    DefaultMinEntries,
	}
}

// Classify returns whether z is an outlier and, if so, its severity.
func (c Config) Classify(z float64) (bool, Severity) {
	if z <= c.Threshold {
		return false, ""
	}
	if z > c.HighThreshold {
		return true, SeverityHigh
	}
	return true, SeverityMedium
}

// TypeOf reports which side of mean the score lies on
func TypeOf(score, mean float64) Type {
	if score > mean {
		return TypePositive
	}
	return TypeNegative
}

// RollingOutlier is a point flagged against its own rolling window
type RollingOutlier struct {
	Index          int
	EntryID        int64
	Timestamp      time.Time
	Score          float64
	RollingAverage float64
	ZScore         float64
	Type           Type
	Severity       Severity
}

// DetectRolling flags points whose distance from their trailing-window mean
// exceeds the threshold. When rolling is nil it is computed from s with windowSize.
func DetectRolling(s analytics.Series, rolling []analytics.RollingPoint, windowSize int, cfg Config) []RollingOutlier {
	if rolling == nil {
		rolling = analytics.RollingWindow(s, windowSize)
	}

	results := []RollingOutlier{}
	for i, rp := range rolling {
		z := analytics.ZScore(rp.RawScore, rp.RollingAverage, rp.RollingStdDev)
		isOutlier, severity := cfg.Classify(z)
		if !isOutlier {
			continue
		}

		results = append(results, RollingOutlier{
			Index:          i,
			EntryID:        rp.EntryID,
			Timestamp:      rp.Timestamp,
			Score:          rp.RawScore,
			RollingAverage: rp.RollingAverage,
			ZScore:         z,
			Type:           TypeOf(rp.RawScore, rp.RollingAverage),
			Severity:       severity,
		})
	}

	return results
}

// Preview returns at most PreviewLength characters of content.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength])
}
