package patterns

import (
	"testing"
	"time"

	"github.com/soulscroll/luma/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(id int64, ts time.Time, score float64, words int) analytics.JournalPoint {
	return analytics.JournalPoint{EntryID: id, Timestamp: ts, EmotionScore: score, WordCount: words}
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil, nil)

	assert.NotNil(t, result.Days)
	assert.Empty(t, result.Days)
	assert.NotNil(t, result.Hours)
	assert.Empty(t, result.Hours)
	assert.Equal(t, StreakInfo{}, result.Streak)
}

func TestAnalyze_GroupsByDayAndHour(t *testing.T) {
	// 2026-03-02 is a Monday
	monday := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	s := analytics.NewSeries([]analytics.JournalPoint{
		point(1, monday, 6, 100),
		point(2, monday.Add(12*time.Hour), 8, 51),
		point(3, monday.AddDate(0, 0, 7), 3, 20),
		point(4, monday.AddDate(0, 0, 5).Add(12*time.Hour), 9, 10),
	})

	result := Analyze(s, time.UTC)

	require.Len(t, result.Days, 2)
	assert.Equal(t, DayPattern{Day: 1, DayName: "Monday", AvgMood: 5.67, EntryCount: 3, AvgWords: 57}, result.Days[0])
	assert.Equal(t, DayPattern{Day: 6, DayName: "Saturday", AvgMood: 9, EntryCount: 1, AvgWords: 10}, result.Days[1])

	require.Len(t, result.Hours, 2)
	assert.Equal(t, HourPattern{Hour: 9, AvgMood: 4.5, EntryCount: 2}, result.Hours[0])
	assert.Equal(t, HourPattern{Hour: 21, AvgMood: 8.5, EntryCount: 2}, result.Hours[1])

	assert.Equal(t, StreakInfo{TotalDays: 3, BestScore: 9, WorstScore: 3}, result.Streak)
}

func TestAnalyze_UsesLocation(t *testing.T) {
	// 01:30 UTC Tuesday is 20:30 Monday five hours west
	ts := time.Date(2026, 3, 3, 1, 30, 0, 0, time.UTC)
	west := time.FixedZone("UTC-5", -5*3600)
	s := analytics.NewSeries([]analytics.JournalPoint{
		point(1, ts, 5, 10),
		point(2, ts.Add(-3*time.Hour), 7, 10),
	})

	utc := Analyze(s, time.UTC)
	local := Analyze(s, west)

	assert.Equal(t, 2, utc.Streak.TotalDays)
	assert.Equal(t, 1, local.Streak.TotalDays)

	require.Len(t, local.Days, 1)
	assert.Equal(t, "Monday", local.Days[0].DayName)
	assert.Equal(t, 6.0, local.Days[0].AvgMood)

	require.Len(t, local.Hours, 2)
	assert.Equal(t, 17, local.Hours[0].Hour)
	assert.Equal(t, 20, local.Hours[1].Hour)
}

func TestAnalyze_ZeroScores(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := analytics.NewSeries([]analytics.JournalPoint{
		point(1, ts, 0, 0),
		point(2, ts.Add(time.Hour), 0, 0),
	})

	result := Analyze(s, nil)

	assert.Equal(t, StreakInfo{TotalDays: 1, BestScore: 0, WorstScore: 0}, result.Streak)
	assert.Equal(t, 0.0, result.Days[0].AvgWords)
}
