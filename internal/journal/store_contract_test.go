package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

// runStoreContract exercises the behaviour every Store must share
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	deletedAt := base.Add(time.Hour)

	fixtures := []Entry{
		{UserID: "alice", Content: "third", EmotionScore: score(7), WordCount: 30, CreatedAt: base.Add(48 * time.Hour)},
		{UserID: "alice", Content: "first", EmotionScore: score(4), WordCount: 10, CreatedAt: base},
		{UserID: "alice", Content: "tied", EmotionScore: nil, WordCount: 20, CreatedAt: base},
		{UserID: "alice", Content: "removed", EmotionScore: score(1), WordCount: 5, CreatedAt: base.Add(24 * time.Hour), DeletedAt: &deletedAt},
		{UserID: "alice", Content: "too old", EmotionScore: score(9), WordCount: 5, CreatedAt: base.Add(-72 * time.Hour)},
		{UserID: "bob", Content: "other user", EmotionScore: score(2), WordCount: 8, CreatedAt: base.Add(time.Hour)},
	}

	ids := make([]int64, len(fixtures))
	for i, e := range fixtures {
		id, err := store.InsertEntry(ctx, e)
		require.NoError(t, err)
		ids[i] = id
	}
	assert.Less(t, ids[1], ids[2], "ids follow insertion order")

	entries, err := store.ListEntries(ctx, "alice", base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "first", entries[0].Content)
	assert.Equal(t, "tied", entries[1].Content)
	assert.Equal(t, "third", entries[2].Content)

	require.NotNil(t, entries[0].EmotionScore)
	assert.Equal(t, 4.0, *entries[0].EmotionScore)
	assert.Nil(t, entries[1].EmotionScore)
	assert.Equal(t, 30, entries[2].WordCount)
	assert.True(t, entries[0].CreatedAt.Equal(base), "got %v", entries[0].CreatedAt)
	assert.Equal(t, ids[1], entries[0].ID)

	boundary, err := store.ListEntries(ctx, "alice", base)
	require.NoError(t, err)
	assert.Len(t, boundary, 3, "since is inclusive")

	none, err := store.ListEntries(ctx, "carol", base.Add(-time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	require.NoError(t, store.Ping(ctx))
}
