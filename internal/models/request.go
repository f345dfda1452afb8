package models

// MoodTrendRequest represents a trend query for one user
type MoodTrendRequest struct {
	UserID     string `json:"userId"`
	Days       int    `json:"days"`
	WindowSize int    `json:"window"`
}

// MoodOutliersRequest represents an outlier query for one user
type MoodOutliersRequest struct {
	UserID string `json:"userId"`
	Days   int    `json:"days"`
}

// MoodPatternsRequest represents a pattern query for one user
type MoodPatternsRequest struct {
	UserID string `json:"userId"`
}
