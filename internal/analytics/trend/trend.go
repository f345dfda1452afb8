// Package trend computes rolling mood statistics and a coarse trend direction
// for a single user's journal series.
package trend

import (
	"github.com/soulscroll/luma/internal/analytics"
)

// Direction is the coarse movement of recent mood versus the prior period
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

const changeEpsilon = 1e-9

// Config holds trend calculation parameters
type Config struct {
	// WindowSize is the trailing window length for rolling statistics
	WindowSize int

	// ComparisonSize is the number of points in the "recent" and "earlier" groups
	ComparisonSize int

	// ChangeThreshold is the percent change (exclusive) needed to leave "stable"
	ChangeThreshold float64
}

// DefaultConfig returns default trend configuration
func DefaultConfig() Config {
	return Config{
		WindowSize:      7,
		ComparisonSize:  7,
		ChangeThreshold: 5.0,
	}
}

// Result is the full output of a trend calculation. Statistics are unrounded.
type Result struct {
	Rolling       []analytics.RollingPoint
	Mean          float64
	StdDev        float64
	Direction     Direction
	ChangePercent float64
	Volatility    float64
	TotalEntries  int
}

// Calculate runs the rolling statistics, global statistics and direction
// analysis over an ordered series. An empty series yields a neutral result.
func Calculate(s analytics.Series, cfg Config) Result {
	if cfg.WindowSize < 1 {
		cfg.WindowSize = DefaultConfig().WindowSize
	}
	if cfg.ComparisonSize < 1 {
		cfg.ComparisonSize = DefaultConfig().ComparisonSize
	}

	if s.Len() == 0 {
		return Result{
			Rolling:   []analytics.RollingPoint{},
			Direction: DirectionStable,
		}
	}

	mean, stdDev := analytics.MeanStdDev(s.Scores())
	direction, change := DetectDirection(s, cfg)

	return Result{
		Rolling:       analytics.RollingWindow(s, cfg.WindowSize),
		Mean:          mean,
		StdDev:        stdDev,
		Direction:     direction,
		ChangePercent: change,
		Volatility:    Volatility(mean, stdDev),
		TotalEntries:  s.Len(),
	}
}

// DetectDirection compares the mean of the most recent ComparisonSize points
// against the ComparisonSize points immediately before them. The threshold is
// strict; the returned percent change is rounded to two decimals.
func DetectDirection(s analytics.Series, cfg Config) (Direction, float64) {
	n := cfg.ComparisonSize
	if n < 1 {
		n = DefaultConfig().ComparisonSize
	}

	recent := s.Tail(n)
	earlier := s[:s.Len()-recent.Len()].Tail(n)
	if recent.Len() == 0 || earlier.Len() == 0 {
		return DirectionStable, 0
	}

	earlierAvg := earlier.Mean()
	if earlierAvg == 0 {
		return DirectionStable, 0
	}
	change := (recent.Mean() - earlierAvg) / earlierAvg * 100

	// float residue such as -5.000000000000004 must not cross the threshold
	switch {
	case change > cfg.ChangeThreshold+changeEpsilon:
		return DirectionImproving, analytics.Round2(change)
	case change < -cfg.ChangeThreshold-changeEpsilon:
		return DirectionDeclining, analytics.Round2(change)
	default:
		return DirectionStable, analytics.Round2(change)
	}
}

// Volatility is the coefficient of variation (stddev / mean), 0 when mean is 0.
func Volatility(mean, stdDev float64) float64 {
	if mean == 0 {
		return 0
	}
	return stdDev / mean
}
