package outlier

import (
	"fmt"
	"time"

	"github.com/soulscroll/luma/internal/analytics"
)

// NoPatternDetected is reported as the most frequent day when nothing was flagged
const NoPatternDetected = "No pattern detected"

// Assessment is the global-mode verdict for a single entry
type Assessment struct {
	Point     analytics.JournalPoint
	ZScore    float64
	IsOutlier bool
	Type      Type
	Severity  Severity
}

// GlobalResult is the outcome of whole-series outlier detection
type GlobalResult struct {
	// Sufficient is false when the series is shorter than MinEntries; in that
	// case Assessments are unflagged and no statistics are computed.
	Sufficient bool

	Assessments      []Assessment
	Mean             float64
	StdDev           float64
	OutlierCount     int
	PositiveOutliers int
	NegativeOutliers int

	// Percentage is outliers/total*100 rounded to one decimal
	Percentage float64

	// DayHistogram counts outlier dates by weekday (0=Sunday)
	DayHistogram    [7]int
	MostFrequentDay string
	Recommendations []string
}

// DetectGlobal scores every point against the whole-series mean and stddev.
// Weekdays are evaluated in loc (UTC when nil).
func DetectGlobal(s analytics.Series, cfg Config, loc *time.Location) GlobalResult {
	if loc == nil {
		loc = time.UTC
	}
	minEntries := cfg.MinEntries
	if minEntries <= 0 {
		minEntries = DefaultMinEntries
	}

	if s.Len() < minEntries {
		assessments := make([]Assessment, s.Len())
		for i, p := range s {
			assessments[i] = Assessment{Point: p}
		}
		return GlobalResult{
			Assessments:     assessments,
			MostFrequentDay: NoPatternDetected,
			Recommendations: []string{},
		}
	}

	mean, stdDev := analytics.MeanStdDev(s.Scores())
	result := GlobalResult{
		Sufficient:  true,
		Assessments: make([]Assessment, s.Len()),
		Mean:        mean,
		StdDev:      stdDev,
	}

	for i, p := range s {
		z := analytics.ZScore(p.EmotionScore, mean, stdDev)
		isOutlier, severity := cfg.Classify(z)
		kind := TypeOf(p.EmotionScore, mean)

		result.Assessments[i] = Assessment{
			Point:     p,
			ZScore:    z,
			IsOutlier: isOutlier,
			Type:      kind,
			Severity:  severity,
		}

		if !isOutlier {
			continue
		}
		result.OutlierCount++
		if kind == TypePositive {
			result.PositiveOutliers++
		} else {
			result.NegativeOutliers++
		}
		result.DayHistogram[p.Timestamp.In(loc).Weekday()]++
	}

	result.Percentage = analytics.Round1(float64(result.OutlierCount) / float64(s.Len()) * 100)
	result.MostFrequentDay = MostFrequentDay(result.DayHistogram)
	result.Recommendations = Recommendations(result.OutlierCount, result.PositiveOutliers, result.NegativeOutliers, mean)

	return result
}

// MostFrequentDay names the weekday with the highest count. Ties go to the
// earliest day of the week.
func MostFrequentDay(histogram [7]int) string {
	best := -1
	bestCount := 0
	for day, count := range histogram {
		if count > bestCount {
			best = day
			bestCount = count
		}
	}
	if best < 0 {
		return NoPatternDetected
	}
	return analytics.DayNames[best]
}

// Recommendations selects guidance messages. Every matching rule contributes
// one message, in rule order.
func Recommendations(total, positive, negative int, mean float64) []string {
	recs := []string{}

	if total == 0 {
		recs = append(recs, "Your mood has been remarkably stable over this period. Consistency like this is a good sign.")
	}
	if positive > 0 {
		recs = append(recs, fmt.Sprintf("You had %d exceptionally positive %s. Reflect on what made %s special.",
			positive, plural(positive, "day", "days"), plural(positive, "it", "them")))
	}
	if negative > 0 {
		recs = append(recs, fmt.Sprintf("You had %d particularly challenging %s. Noting what led up to %s can help you spot triggers.",
			negative, plural(negative, "day", "days"), plural(negative, "it", "them")))
	}
	if total > 3 {
		recs = append(recs, "Your mood shows notable variability. Steady daily routines may help smooth it out.")
	}

	switch {
	case mean > 7:
		recs = append(recs, "Your baseline mood is positive. Keep up the practices that support it.")
	case mean < 4:
		recs = append(recs, "Your average mood has been low lately. Consider reaching out to someone you trust or a support service.")
	}

	return recs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
