package models

import "time"

// RollingPoint is one row of the mood trend
type RollingPoint struct {
	Date           time.Time `json:"date"`
	RawScore       float64   `json:"rawScore"`
	RollingAverage float64   `json:"rollingAverage"`
	RollingStdDev  float64   `json:"rollingStdDev"`
	WordCount      int       `json:"wordCount"`
}

// RollingOutlier is a trend point flagged against its own rolling window
type RollingOutlier struct {
	Date           time.Time `json:"date"`
	Score          float64   `json:"score"`
	RollingAverage float64   `json:"rollingAverage"`
	ZScore         float64   `json:"zScore"`
	OutlierType    string    `json:"outlierType"`
	Severity       string    `json:"severity"`
}

// TrendInsights summarizes a trend. An empty series serializes as exactly
// {averageMood, trendDirection, volatility}.
type TrendInsights struct {
	AverageMood    float64 `json:"averageMood"`
	TrendDirection string  `json:"trendDirection"`
	Volatility     float64 `json:"volatility"`
	TotalEntries   int     `json:"totalEntries,omitempty"`
	PeriodDays     int     `json:"periodDays,omitempty"`
}

// MoodTrendResponse is the getMoodTrend result
type MoodTrendResponse struct {
	MoodTrend []RollingPoint   `json:"moodTrend"`
	Outliers  []RollingOutlier `json:"outliers"`
	Insights  TrendInsights    `json:"insights"`
}

// OutlierEntry is one entry assessed against the whole-series baseline
type OutlierEntry struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date"`
	EmotionScore   float64   `json:"emotionScore"`
	WordCount      int       `json:"wordCount"`
	ContentPreview string    `json:"contentPreview"`
	ZScore         float64   `json:"zScore"`
	IsOutlier      bool      `json:"isOutlier"`
	OutlierType    string    `json:"outlierType,omitempty"`
	Severity       string    `json:"severity,omitempty"`
}

// OutlierInsights summarizes global-mode outlier detection
type OutlierInsights struct {
	TotalEntries           int      `json:"totalEntries"`
	OutlierCount           int      `json:"outlierCount"`
	OutlierPercentage      float64  `json:"outlierPercentage"`
	PositiveOutliers       int      `json:"positiveOutliers"`
	NegativeOutliers       int      `json:"negativeOutliers"`
	AverageMood            float64  `json:"averageMood"`
	StdDeviation           float64  `json:"stdDeviation"`
	DayOfWeekPattern       [7]int   `json:"dayOfWeekPattern"`
	MostFrequentOutlierDay string   `json:"mostFrequentOutlierDay"`
	Recommendations        []string `json:"recommendations"`
}

// MoodOutliersResponse is the getMoodOutliers result. Message and
// MinimumEntries are set only when there is too little data to analyze.
type MoodOutliersResponse struct {
	Entries        []OutlierEntry   `json:"entries"`
	OutlierCount   int              `json:"outlierCount"`
	Insights       *OutlierInsights `json:"insights,omitempty"`
	Message        string           `json:"message,omitempty"`
	MinimumEntries int              `json:"minimumEntries,omitempty"`
}

// DayPattern aggregates entries by weekday (0=Sunday)
type DayPattern struct {
	Day        int     `json:"day"`
	DayName    string  `json:"dayName"`
	AvgMood    float64 `json:"avgMood"`
	EntryCount int     `json:"entryCount"`
	AvgWords   float64 `json:"avgWords"`
}

// HourPattern aggregates entries by hour of day
type HourPattern struct {
	Hour       int     `json:"hour"`
	AvgMood    float64 `json:"avgMood"`
	EntryCount int     `json:"entryCount"`
}

// StreakInfo summarizes journaling activity
type StreakInfo struct {
	TotalDays  int     `json:"totalDays"`
	BestScore  float64 `json:"bestScore"`
	WorstScore float64 `json:"worstScore"`
}

// MoodPatternsResponse is the getPatterns result
type MoodPatternsResponse struct {
	DayPatterns  []DayPattern  `json:"day_patterns"`
	HourPatterns []HourPattern `json:"hour_patterns"`
	StreakInfo   StreakInfo    `json:"streak_info"`
}
