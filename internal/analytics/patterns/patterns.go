// Package patterns aggregates a journal series by weekday and hour of day.
package patterns

import (
	"time"

	"github.com/soulscroll/luma/internal/analytics"
)

// DefaultLookbackDays is the fixed window the pattern view covers
const DefaultLookbackDays = 90

// DayPattern aggregates entries written on one weekday (0=Sunday)
type DayPattern struct {
	Day        int
	DayName    string
	AvgMood    float64
	EntryCount int
	AvgWords   float64
}

// HourPattern aggregates entries written in one hour of the day
type HourPattern struct {
	Hour       int
	AvgMood    float64
	EntryCount int
}

// StreakInfo summarizes journaling activity across the window
type StreakInfo struct {
	TotalDays  int
	BestScore  float64
	WorstScore float64
}

// Result is the full pattern aggregation
type Result struct {
	Days   []DayPattern
	Hours  []HourPattern
	Streak StreakInfo
}

type bucket struct {
	moodSum float64
	wordSum int
	count   int
}

func (b *bucket) add(p analytics.JournalPoint) {
	b.moodSum += p.EmotionScore
	b.wordSum += p.WordCount
	b.count++
}

// Analyze groups s by weekday and by hour in loc (UTC when nil). Only groups
// that contain entries are returned, in ascending order.
func Analyze(s analytics.Series, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	var days [7]bucket
	var hours [24]bucket
	calendarDays := make(map[string]struct{})

	result := Result{
		Days:  []DayPattern{},
		Hours: []HourPattern{},
	}

	for i, p := range s {
		local := p.Timestamp.In(loc)
		days[local.Weekday()].add(p)
		hours[local.Hour()].add(p)
		calendarDays[local.Format(time.DateOnly)] = struct{}{}

		if i == 0 || p.EmotionScore > result.Streak.BestScore {
			result.Streak.BestScore = p.EmotionScore
		}
		if i == 0 || p.EmotionScore < result.Streak.WorstScore {
			result.Streak.WorstScore = p.EmotionScore
		}
	}
	result.Streak.TotalDays = len(calendarDays)

	for day, b := range days {
		if b.count == 0 {
			continue
		}
		result.Days = append(result.Days, DayPattern{
			Day:        day,
			DayName:    analytics.DayNames[day],
			AvgMood:    analytics.Round2(b.moodSum / float64(b.count)),
			EntryCount: b.count,
			AvgWords:   analytics.Round2(float64(b.wordSum) / float64(b.count)),
		})
	}

	for hour, b := range hours {
		if b.count == 0 {
			continue
		}
		result.Hours = append(result.Hours, HourPattern{
			Hour:       hour,
			AvgMood:    analytics.Round2(b.moodSum / float64(b.count)),
			EntryCount: b.count,
		})
	}

	return result
}
