package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/journal"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/middleware"
	"github.com/soulscroll/luma/internal/models"
	"github.com/soulscroll/luma/internal/services"
	"github.com/soulscroll/luma/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMoodApp(t *testing.T, scores ...float64) (*fiber.App, *journal.MemoryStore) {
	t.Helper()

	logger := logging.NewNop()
	store := journal.NewMemoryStore()
	start := time.Now().UTC().Add(-time.Duration(len(scores)+1) * 24 * time.Hour)
	for i, s := range scores {
		_, err := store.InsertEntry(context.Background(), journal.Entry{
			UserID:       "alice",
			Content:      "today was a day",
			EmotionScore: &s,
			WordCount:    5,
			CreatedAt:    start.Add(time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}

	svc := services.NewMoodService(logger, journal.NewLoader(store), nil, config.DefaultConfig().Analytics)
	handler := New(logger, svc, store, time.Second)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	v1 := app.Group("/v1", middleware.UserIdentity(logger, "X-User-ID"))
	v1.Get("/mood/trend", handler.MoodTrend)
	v1.Get("/mood/outliers", handler.MoodOutliers)
	v1.Get("/mood/patterns", handler.MoodPatterns)

	return app, store
}

func get(t *testing.T, app *fiber.App, path, user string) (*httpResult, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), string(body))

	return &httpResult{
		status:     resp.StatusCode,
		degraded:   resp.Header.Get(utils.DegradedHeader),
		retryAfter: resp.Header.Get(fiber.HeaderRetryAfter),
		body:       body,
	}, decoded
}

type httpResult struct {
	status     int
	degraded   string
	retryAfter string
	body       []byte
}

func TestMoodTrend(t *testing.T) {
	app, _ := newMoodApp(t, 5, 5, 5, 5, 5, 5, 5, 20)

	res, _ := get(t, app, "/v1/mood/trend?days=30&window=7", "alice")
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Empty(t, res.degraded)

	var trend models.MoodTrendResponse
	require.NoError(t, json.Unmarshal(res.body, &trend))
	assert.Len(t, trend.MoodTrend, 8)
	require.Len(t, trend.Outliers, 1)
	assert.Equal(t, "positive", trend.Outliers[0].OutlierType)
	assert.Equal(t, "medium", trend.Outliers[0].Severity)
	assert.Equal(t, 30, trend.Insights.PeriodDays)
}

func TestMoodTrend_EmptyShape(t *testing.T) {
	app, _ := newMoodApp(t)

	res, _ := get(t, app, "/v1/mood/trend", "nobody")
	require.Equal(t, fiber.StatusOK, res.status)
	assert.JSONEq(t,
		`{"moodTrend":[],"outliers":[],"insights":{"averageMood":0,"trendDirection":"stable","volatility":0}}`,
		string(res.body))
}

func TestMoodTrend_InvalidQuery(t *testing.T) {
	app, _ := newMoodApp(t)

	tests := []struct {
		name string
		path string
	}{
		{"non-numeric days", "/v1/mood/trend?days=abc"},
		{"zero days", "/v1/mood/trend?days=0"},
		{"negative window", "/v1/mood/trend?window=-3"},
		{"days above max", "/v1/mood/trend?days=366"},
		{"window above max", "/v1/mood/trend?window=91"},
		{"outliers bad days", "/v1/mood/outliers?days=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, decoded := get(t, app, tt.path, "alice")
			assert.Equal(t, fiber.StatusBadRequest, res.status)

			errObj, ok := decoded["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, services.ErrCodeInvalidRequest, errObj["code"])
		})
	}
}

func TestMood_MissingUser(t *testing.T) {
	app, _ := newMoodApp(t, 5, 6, 7)

	for _, path := range []string{"/v1/mood/trend", "/v1/mood/outliers", "/v1/mood/patterns"} {
		res, decoded := get(t, app, path, "")
		assert.Equal(t, fiber.StatusUnauthorized, res.status, path)

		errObj, ok := decoded["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, services.ErrCodeNotAuthenticated, errObj["code"])
	}
}

func TestMood_DataUnavailableDegrades(t *testing.T) {
	app, store := newMoodApp(t, 5, 6, 7)
	require.NoError(t, store.Close())

	res, _ := get(t, app, "/v1/mood/trend", "alice")
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, utils.DegradedDataUnavailable, res.degraded)
	assert.Equal(t, "5", res.retryAfter)
	assert.JSONEq(t,
		`{"moodTrend":[],"outliers":[],"insights":{"averageMood":0,"trendDirection":"stable","volatility":0}}`,
		string(res.body))

	res, decoded := get(t, app, "/v1/mood/outliers", "alice")
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, utils.DegradedDataUnavailable, res.degraded)
	assert.Equal(t, []interface{}{}, decoded["entries"])

	res, _ = get(t, app, "/v1/mood/patterns", "alice")
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, utils.DegradedDataUnavailable, res.degraded)
}

func TestMoodOutliers(t *testing.T) {
	app, _ := newMoodApp(t, 5, 5, 5, 5, 5, 5, 5, 5, 5, 10)

	res, _ := get(t, app, "/v1/mood/outliers?days=30", "alice")
	require.Equal(t, fiber.StatusOK, res.status)

	var out models.MoodOutliersResponse
	require.NoError(t, json.Unmarshal(res.body, &out))
	assert.Equal(t, 1, out.OutlierCount)
	require.NotNil(t, out.Insights)
	assert.Equal(t, 10.0, out.Insights.OutlierPercentage)
	assert.Len(t, out.Entries, 10)
	assert.Equal(t, "today was a day", out.Entries[0].ContentPreview)
}

func TestMoodOutliers_InsufficientData(t *testing.T) {
	app, _ := newMoodApp(t, 2, 9)

	res, decoded := get(t, app, "/v1/mood/outliers", "alice")
	require.Equal(t, fiber.StatusOK, res.status)

	assert.Equal(t, float64(0), decoded["outlierCount"])
	assert.Equal(t, float64(3), decoded["minimumEntries"])
	assert.Equal(t, "Need at least 3 entries for outlier detection", decoded["message"])
	assert.NotContains(t, decoded, "insights")
}

func TestMoodPatterns(t *testing.T) {
	app, _ := newMoodApp(t, 3, 6, 9)

	res, decoded := get(t, app, "/v1/mood/patterns", "alice")
	require.Equal(t, fiber.StatusOK, res.status)

	assert.Contains(t, decoded, "day_patterns")
	assert.Contains(t, decoded, "hour_patterns")

	var out models.MoodPatternsResponse
	require.NoError(t, json.Unmarshal(res.body, &out))
	assert.Equal(t, 3, out.StreakInfo.TotalDays)
	assert.Equal(t, 9.0, out.StreakInfo.BestScore)
	assert.Equal(t, 3.0, out.StreakInfo.WorstScore)
}

func TestMood_UsersAreIsolated(t *testing.T) {
	app, _ := newMoodApp(t, 5, 6, 7)

	res, _ := get(t, app, "/v1/mood/patterns", "bob")
	require.Equal(t, fiber.StatusOK, res.status)

	var out models.MoodPatternsResponse
	require.NoError(t, json.Unmarshal(res.body, &out))
	assert.Empty(t, out.DayPatterns)
	assert.Equal(t, 0, out.StreakInfo.TotalDays)
}
