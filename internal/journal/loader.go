package journal

import (
	"context"
	"time"

	"github.com/soulscroll/luma/internal/analytics"
)

// Loader turns stored entries into an analytics series
type Loader struct {
	store Store
}

// NewLoader creates a Loader over store
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Load returns the user's entries with timestamp >= now - lookbackDays,
// oldest first. A user with no entries yields an empty series, not an error.
func (l *Loader) Load(ctx context.Context, userID string, lookbackDays int, now time.Time) (analytics.Series, error) {
	since := now.Add(-time.Duration(lookbackDays) * 24 * time.Hour)

	entries, err := l.store.ListEntries(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	points := make([]analytics.JournalPoint, len(entries))
	for i, e := range entries {
		points[i] = ToPoint(e)
	}

	return analytics.NewSeries(points), nil
}

// ToPoint converts an entry, scoring unscored entries at the scale midpoint
func ToPoint(e Entry) analytics.JournalPoint {
	score := analytics.DefaultEmotionScore
	if e.EmotionScore != nil {
		score = *e.EmotionScore
	}

	return analytics.JournalPoint{
		EntryID:      e.ID,
		Timestamp:    e.CreatedAt,
		EmotionScore: score,
		WordCount:    e.WordCount,
		Content:      e.Content,
	}
}
