package analytics

import "time"

// RollingPoint is one row of the rolling-window series. Values are unrounded;
// rounding is a presentation concern.
type RollingPoint struct {
	EntryID        int64
	Timestamp      time.Time
	RawScore       float64
	WordCount      int
	RollingAverage float64
	RollingStdDev  float64
	WindowLength   int
}

// RollingWindow computes a trailing mean and population stddev for every point.
// The window ending at i covers [max(0, i-windowSize+1) .. i]; early points
// simply use all available prior points.
func RollingWindow(s Series, windowSize int) []RollingPoint {
	if windowSize < 1 {
		windowSize = 1
	}

	result := make([]RollingPoint, len(s))
	for i, p := range s {
		start := i - windowSize + 1
		if start < 0 {
			start = 0
		}

		window := make([]float64, 0, i-start+1)
		for j := start; j <= i; j++ {
			window = append(window, s[j].EmotionScore)
		}
		mean, stdDev := MeanStdDev(window)

		result[i] = RollingPoint{
			EntryID:        p.EntryID,
			Timestamp:      p.Timestamp,
			RawScore:       p.EmotionScore,
			WordCount:      p.WordCount,
			RollingAverage: mean,
			RollingStdDev:  stdDev,
			WindowLength:   len(window),
		}
	}

	return result
}
