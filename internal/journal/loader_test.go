package journal

import (
	"context"
	"testing"
	"time"

	"github.com/soulscroll/luma/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

	inserts := []Entry{
		{UserID: "alice", Content: "in window", EmotionScore: score(8), WordCount: 12, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{UserID: "alice", Content: "unscored", WordCount: 3, CreatedAt: now.Add(-24 * time.Hour)},
		{UserID: "alice", Content: "exact boundary", EmotionScore: score(6), CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{UserID: "alice", Content: "outside", EmotionScore: score(1), CreatedAt: now.Add(-31 * 24 * time.Hour)},
	}
	for _, e := range inserts {
		_, err := store.InsertEntry(ctx, e)
		require.NoError(t, err)
	}

	series, err := NewLoader(store).Load(ctx, "alice", 30, now)
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())

	assert.Equal(t, []float64{6, 8, analytics.DefaultEmotionScore}, series.Scores())
	assert.Equal(t, 3, series[2].WordCount)
	assert.Equal(t, "exact boundary", series[0].Content)
}

func TestLoader_EmptyUser(t *testing.T) {
	series, err := NewLoader(NewMemoryStore()).Load(context.Background(), "nobody", 30, time.Now())
	require.NoError(t, err)
	assert.Zero(t, series.Len())
}

func TestLoader_PropagatesUnavailable(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := NewLoader(store).Load(context.Background(), "alice", 30, time.Now())
	assert.ErrorIs(t, err, ErrUnavailable)
}
