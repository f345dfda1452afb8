// Package analytics provides the shared series types and statistics used by
// the mood trend, outlier and pattern analyses.
package analytics

import (
	"sort"
	"time"
)

// DefaultEmotionScore is used for entries that were saved without a score.
const DefaultEmotionScore = 5.0

// JournalPoint is one observation of a user's mood series.
// EntryID and Content are carried through for reporting only.
type JournalPoint struct {
	EntryID      int64
	Timestamp    time.Time
	EmotionScore float64
	WordCount    int
	Content      string
}

// Series is an ordered collection of journal points
type Series []JournalPoint

// NewSeries returns a copy of points sorted ascending by timestamp.
// Points sharing a timestamp keep their original (insertion) order.
func NewSeries(points []JournalPoint) Series {
	s := make(Series, len(points))
	copy(s, points)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp.Before(s[j].Timestamp)
	})
	return s
}

// Scores extracts the emotion scores in series order
func (s Series) Scores() []float64 {
	scores := make([]float64, len(s))
	for i, p := range s {
		scores[i] = p.EmotionScore
	}
	return scores
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s)
}

// Mean returns the arithmetic mean of the emotion scores, 0 for an empty series.
func (s Series) Mean() float64 {
	return Mean(s.Scores())
}

// StdDev returns the population standard deviation of the emotion scores.
func (s Series) StdDev() float64 {
	return PopulationStdDev(s.Scores())
}

// Tail returns the last n points (or the whole series when shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// DayNames maps time.Weekday values (0=Sunday) to display names.
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
