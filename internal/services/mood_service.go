package services

import (
	"context"
	"fmt"
	"time"

	"github.com/soulscroll/luma/internal/analytics"
	"github.com/soulscroll/luma/internal/analytics/outlier"
	"github.com/soulscroll/luma/internal/analytics/patterns"
	"github.com/soulscroll/luma/internal/analytics/trend"
	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/events"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/models"
	"github.com/soulscroll/luma/internal/utils"
)

// SeriesLoader supplies a user's ordered journal series
type SeriesLoader interface {
	Load(ctx context.Context, userID string, lookbackDays int, now time.Time) (analytics.Series, error)
}

// EventPublisher receives analysis-completed notifications
type EventPublisher interface {
	PublishAnalysis(ctx context.Context, ev events.AnalysisCompleted) error
}

// MoodService runs the mood analyses for one user per call
type MoodService struct {
	logger    *logging.Logger
	loader    SeriesLoader
	publisher EventPublisher
	cfg       config.AnalyticsConfig
	loc       *time.Location
	now       func() time.Time
}

// NewMoodService creates a MoodService. publisher may be nil.
func NewMoodService(logger *logging.Logger, loader SeriesLoader, publisher EventPublisher, cfg config.AnalyticsConfig) *MoodService {
	if logger == nil {
		logger = logging.Global()
	}
	return &MoodService{
		logger:    logger,
		loader:    loader,
		publisher: publisher,
		cfg:       cfg,
		loc:       cfg.Location(),
		now:       time.Now,
	}
}

// EmptyTrendResponse is the neutral trend shape for empty series and store failures
func EmptyTrendResponse() *models.MoodTrendResponse {
	return &models.MoodTrendResponse{
		MoodTrend: []models.RollingPoint{},
		Outliers:  []models.RollingOutlier{},
		Insights: models.TrendInsights{
			AverageMood:    0,
			TrendDirection: string(trend.DirectionStable),
			Volatility:     0,
		},
	}
}

// EmptyOutliersResponse is the outlier shape returned when the store fails
func EmptyOutliersResponse() *models.MoodOutliersResponse {
	return &models.MoodOutliersResponse{
		Entries:      []models.OutlierEntry{},
		OutlierCount: 0,
	}
}

// EmptyPatternsResponse is the patterns shape for empty series and store failures
func EmptyPatternsResponse() *models.MoodPatternsResponse {
	return &models.MoodPatternsResponse{
		DayPatterns:  []models.DayPattern{},
		HourPatterns: []models.HourPattern{},
	}
}

// GetMoodTrend computes the rolling trend, rolling-mode outliers and trend
// insights over the last days. Zero days or windowSize selects the default.
// On a store failure the neutral shape is returned together with a
// DATA_UNAVAILABLE error.
func (s *MoodService) GetMoodTrend(ctx context.Context, userID string, days, windowSize int) (*models.MoodTrendResponse, error) {
	start := time.Now()

	if userID == "" {
		return nil, ErrNotAuthenticated()
	}
	days, err := s.resolveDays(days)
	if err != nil {
		return nil, err
	}
	windowSize, err = s.resolveWindow(windowSize)
	if err != nil {
		return nil, err
	}

	series, err := s.loader.Load(ctx, userID, days, s.now())
	if err != nil {
		s.requestLogger(ctx, userID).Error("Failed to load journal series",
			"operation", "trend",
			"error", err)
		s.publish(ctx, events.AnalysisCompleted{Kind: events.KindTrend, UserID: userID, Degraded: true}, start)
		return EmptyTrendResponse(), ErrDataUnavailable(err)
	}

	cfg := trend.DefaultConfig()
	cfg.WindowSize = windowSize
	result := trend.Calculate(series, cfg)
	rollingOutliers := outlier.DetectRolling(series, result.Rolling, windowSize, outlier.DefaultConfig())

	resp := EmptyTrendResponse()
	if series.Len() > 0 {
		resp = buildTrendResponse(result, rollingOutliers, days)
	}

	s.requestLogger(ctx, userID).Info("Mood trend computed",
		"operation", "trend",
		"total_entries", series.Len(),
		"outliers", len(rollingOutliers),
		"direction", result.Direction,
		"latency_ms", time.Since(start).Milliseconds())

	s.publish(ctx, events.AnalysisCompleted{
		Kind:           events.KindTrend,
		UserID:         userID,
		TotalEntries:   series.Len(),
		OutlierCount:   len(rollingOutliers),
		TrendDirection: string(result.Direction),
	}, start)

	return resp, nil
}

func buildTrendResponse(result trend.Result, rollingOutliers []outlier.RollingOutlier, days int) *models.MoodTrendResponse {
	points := make([]models.RollingPoint, len(result.Rolling))
	for i, rp := range result.Rolling {
		points[i] = models.RollingPoint{
			Date:           rp.Timestamp,
			RawScore:       rp.RawScore,
			RollingAverage: analytics.Round2(rp.RollingAverage),
			RollingStdDev:  analytics.Round2(rp.RollingStdDev),
			WordCount:      rp.WordCount,
		}
	}

	flagged := make([]models.RollingOutlier, len(rollingOutliers))
	for i, o := range rollingOutliers {
		flagged[i] = models.RollingOutlier{
			Date:           o.Timestamp,
			Score:          o.Score,
			RollingAverage: analytics.Round2(o.RollingAverage),
			ZScore:         analytics.Round2(o.ZScore),
			OutlierType:    string(o.Type),
			Severity:       string(o.Severity),
		}
	}

	return &models.MoodTrendResponse{
		MoodTrend: points,
		Outliers:  flagged,
		Insights: models.TrendInsights{
			AverageMood:    analytics.Round2(result.Mean),
			TrendDirection: string(result.Direction),
			Volatility:     analytics.Round2(result.Volatility),
			TotalEntries:   result.TotalEntries,
			PeriodDays:     days,
		},
	}
}

// GetMoodOutliers scores every entry of the last days against the
// whole-series baseline. With fewer than the minimum entries the entries are
// returned unflagged with an explanatory message.
func (s *MoodService) GetMoodOutliers(ctx context.Context, userID string, days int) (*models.MoodOutliersResponse, error) {
	start := time.Now()

	if userID == "" {
		return nil, ErrNotAuthenticated()
	}
	days, err := s.resolveDays(days)
	if err != nil {
		return nil, err
	}

	series, err := s.loader.Load(ctx, userID, days, s.now())
	if err != nil {
		s.requestLogger(ctx, userID).Error("Failed to load journal series",
			"operation", "outliers",
			"error", err)
		s.publish(ctx, events.AnalysisCompleted{Kind: events.KindOutliers, UserID: userID, Degraded: true}, start)
		return EmptyOutliersResponse(), ErrDataUnavailable(err)
	}

	cfg := outlier.DefaultConfig()
	result := outlier.DetectGlobal(series, cfg, s.loc)
	resp := buildOutliersResponse(result, cfg)

	s.requestLogger(ctx, userID).Info("Mood outliers computed",
		"operation", "outliers",
		"total_entries", series.Len(),
		"outliers", result.OutlierCount,
		"sufficient", result.Sufficient,
		"latency_ms", time.Since(start).Milliseconds())

	s.publish(ctx, events.AnalysisCompleted{
		Kind:         events.KindOutliers,
		UserID:       userID,
		TotalEntries: series.Len(),
		OutlierCount: result.OutlierCount,
	}, start)

	return resp, nil
}

func buildOutliersResponse(result outlier.GlobalResult, cfg outlier.Config) *models.MoodOutliersResponse {
	entries := make([]models.OutlierEntry, len(result.Assessments))
	for i, a := range result.Assessments {
		entry := models.OutlierEntry{
			ID:             a.Point.EntryID,
			Date:           a.Point.Timestamp,
			EmotionScore:   a.Point.EmotionScore,
			WordCount:      a.Point.WordCount,
			ContentPreview: outlier.Preview(a.Point.Content),
			ZScore:         analytics.Round2(a.ZScore),
			IsOutlier:      a.IsOutlier,
		}
		if result.Sufficient {
			entry.OutlierType = string(a.Type)
		}
		if a.IsOutlier {
			entry.Severity = string(a.Severity)
		}
		entries[i] = entry
	}

	if !result.Sufficient {
		minEntries := cfg.MinEntries
		if minEntries <= 0 {
			minEntries = outlier.DefaultMinEntries
		}
		return &models.MoodOutliersResponse{
			Entries:        entries,
			OutlierCount:   0,
			Message:        fmt.Sprintf("Need at least %d entries for outlier detection", minEntries),
			MinimumEntries: minEntries,
		}
	}

	return &models.MoodOutliersResponse{
		Entries:      entries,
		OutlierCount: result.OutlierCount,
		Insights: &models.OutlierInsights{
			TotalEntries:           len(result.Assessments),
			OutlierCount:           result.OutlierCount,
			OutlierPercentage:      result.Percentage,
			PositiveOutliers:       result.PositiveOutliers,
			NegativeOutliers:       result.NegativeOutliers,
			AverageMood:            analytics.Round2(result.Mean),
			StdDeviation:           analytics.Round2(result.StdDev),
			DayOfWeekPattern:       result.DayHistogram,
			MostFrequentOutlierDay: result.MostFrequentDay,
			Recommendations:        result.Recommendations,
		},
	}
}

// GetPatterns aggregates the configured pattern window by weekday and hour
func (s *MoodService) GetPatterns(ctx context.Context, userID string) (*models.MoodPatternsResponse, error) {
	start := time.Now()

	if userID == "" {
		return nil, ErrNotAuthenticated()
	}

	days := s.cfg.PatternDays
	if days <= 0 {
		days = patterns.DefaultLookbackDays
	}

	series, err := s.loader.Load(ctx, userID, days, s.now())
	if err != nil {
		s.requestLogger(ctx, userID).Error("Failed to load journal series",
			"operation", "patterns",
			"error", err)
		s.publish(ctx, events.AnalysisCompleted{Kind: events.KindPatterns, UserID: userID, Degraded: true}, start)
		return EmptyPatternsResponse(), ErrDataUnavailable(err)
	}

	result := patterns.Analyze(series, s.loc)
	resp := buildPatternsResponse(result)

	s.requestLogger(ctx, userID).Info("Mood patterns computed",
		"operation", "patterns",
		"total_entries", series.Len(),
		"active_days", result.Streak.TotalDays,
		"latency_ms", time.Since(start).Milliseconds())

	s.publish(ctx, events.AnalysisCompleted{
		Kind:         events.KindPatterns,
		UserID:       userID,
		TotalEntries: series.Len(),
	}, start)

	return resp, nil
}

func buildPatternsResponse(result patterns.Result) *models.MoodPatternsResponse {
	resp := EmptyPatternsResponse()

	for _, d := range result.Days {
		resp.DayPatterns = append(resp.DayPatterns, models.DayPattern{
			Day:        d.Day,
			DayName:    d.DayName,
			AvgMood:    d.AvgMood,
			EntryCount: d.EntryCount,
			AvgWords:   d.AvgWords,
		})
	}
	for _, h := range result.Hours {
		resp.HourPatterns = append(resp.HourPatterns, models.HourPattern{
			Hour:       h.Hour,
			AvgMood:    h.AvgMood,
			EntryCount: h.EntryCount,
		})
	}
	resp.StreakInfo = models.StreakInfo{
		TotalDays:  result.Streak.TotalDays,
		BestScore:  result.Streak.BestScore,
		WorstScore: result.Streak.WorstScore,
	}

	return resp
}

func (s *MoodService) resolveDays(days int) (int, error) {
	if days == 0 {
		if s.cfg.DefaultDays > 0 {
			return s.cfg.DefaultDays, nil
		}
		return utils.DefaultLookbackDays, nil
	}
	maxDays := s.cfg.MaxDays
	if maxDays <= 0 {
		maxDays = utils.MaxLookbackDays
	}
	if days < 1 || days > maxDays {
		return 0, NewServiceErrorWithDetails(ErrCodeInvalidRequest,
			fmt.Sprintf("days must be between 1 and %d", maxDays),
			map[string]interface{}{"parameter": "days", "value": days})
	}
	return days, nil
}

func (s *MoodService) resolveWindow(window int) (int, error) {
	if window == 0 {
		if s.cfg.WindowSize > 0 {
			return s.cfg.WindowSize, nil
		}
		return utils.DefaultWindowSize, nil
	}
	maxWindow := s.cfg.MaxWindowSize
	if maxWindow <= 0 {
		maxWindow = utils.MaxWindowSize
	}
	if window < 1 || window > maxWindow {
		return 0, NewServiceErrorWithDetails(ErrCodeInvalidRequest,
			fmt.Sprintf("window must be between 1 and %d", maxWindow),
			map[string]interface{}{"parameter": "window", "value": window})
	}
	return window, nil
}

// requestLogger tags log lines with the request id (when the caller's context
// carries one) and the user being analyzed.
func (s *MoodService) requestLogger(ctx context.Context, userID string) *logging.Logger {
	return s.logger.WithContext(logging.WithUserID(ctx, userID))
}

// publish runs detached from request cancellation; failures are only logged.
func (s *MoodService) publish(ctx context.Context, ev events.AnalysisCompleted, start time.Time) {
	if s.publisher == nil {
		return
	}
	ev.DurationMs = time.Since(start).Milliseconds()

	if err := s.publisher.PublishAnalysis(context.WithoutCancel(ctx), ev); err != nil {
		s.requestLogger(ctx, ev.UserID).Warn("Failed to publish analysis event",
			"kind", ev.Kind,
			"error", err)
	}
}
