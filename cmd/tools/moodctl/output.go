package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/soulscroll/luma/internal/models"
)

const dateLayout = "2006-01-02 15:04"

var (
	highColor     = color.New(color.FgRed, color.Bold)
	mediumColor   = color.New(color.FgYellow)
	improvingText = color.New(color.FgGreen).SprintFunc()
	decliningText = color.New(color.FgRed).SprintFunc()
	stableText    = color.New(color.FgCyan).SprintFunc()
)

func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fmtDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func colorDirection(direction string) string {
	switch direction {
	case "improving":
		return improvingText(direction)
	case "declining":
		return decliningText(direction)
	default:
		return stableText(direction)
	}
}

func colorSeverity(severity string) string {
	switch severity {
	case "high":
		return highColor.Sprint(severity)
	case "medium":
		return mediumColor.Sprint(severity)
	default:
		return severity
	}
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func render(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeTrendTable(w io.Writer, resp *models.MoodTrendResponse) error {
	if len(resp.MoodTrend) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries in the selected period")
		return err
	}

	flagged := make(map[int64]models.RollingOutlier, len(resp.Outliers))
	for _, o := range resp.Outliers {
		flagged[o.Date.UnixNano()] = o
	}

	table := newTable(w, []string{"Date", "Score", "Rolling Avg", "Rolling SD", "Words", "Outlier"})
	var data [][]string
	for _, p := range resp.MoodTrend {
		mark := ""
		if o, ok := flagged[p.Date.UnixNano()]; ok {
			mark = fmt.Sprintf("%s %s (z=%s)", o.OutlierType, colorSeverity(o.Severity), fmtScore(o.ZScore))
		}
		data = append(data, []string{
			fmtDate(p.Date),
			fmtScore(p.RawScore),
			fmtScore(p.RollingAverage),
			fmtScore(p.RollingStdDev),
			strconv.Itoa(p.WordCount),
			mark,
		})
	}
	if err := render(table, data); err != nil {
		return err
	}

	in := resp.Insights
	_, err := fmt.Fprintf(w, "Average mood %s, trend %s, volatility %s over %d entries (%d days)\n",
		fmtScore(in.AverageMood), colorDirection(in.TrendDirection), fmtScore(in.Volatility), in.TotalEntries, in.PeriodDays)
	return err
}

func writeOutliersTable(w io.Writer, resp *models.MoodOutliersResponse) error {
	if resp.Insights == nil {
		msg := resp.Message
		if msg == "" {
			msg = "No journal entries in the selected period"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	table := newTable(w, []string{"ID", "Date", "Score", "Z", "Type", "Severity", "Preview"})
	var data [][]string
	for _, e := range resp.Entries {
		if !e.IsOutlier {
			continue
		}
		data = append(data, []string{
			strconv.FormatInt(e.ID, 10),
			fmtDate(e.Date),
			fmtScore(e.EmotionScore),
			fmtScore(e.ZScore),
			e.OutlierType,
			colorSeverity(e.Severity),
			truncate(e.ContentPreview, 40),
		})
	}
	if err := render(table, data); err != nil {
		return err
	}

	in := resp.Insights
	if _, err := fmt.Fprintf(w, "%d of %d entries are outliers (%.1f%%): %d positive, %d negative. Most frequent day: %s\n",
		in.OutlierCount, in.TotalEntries, in.OutlierPercentage, in.PositiveOutliers, in.NegativeOutliers, in.MostFrequentOutlierDay); err != nil {
		return err
	}
	for _, r := range in.Recommendations {
		if _, err := fmt.Fprintf(w, "  - %s\n", r); err != nil {
			return err
		}
	}
	return nil
}

func writePatternsTable(w io.Writer, resp *models.MoodPatternsResponse) error {
	if len(resp.DayPatterns) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries in the pattern window")
		return err
	}

	days := newTable(w, []string{"Day", "Avg Mood", "Entries", "Avg Words"})
	var data [][]string
	for _, d := range resp.DayPatterns {
		data = append(data, []string{d.DayName, fmtScore(d.AvgMood), strconv.Itoa(d.EntryCount), fmtScore(d.AvgWords)})
	}
	if err := render(days, data); err != nil {
		return err
	}

	hours := newTable(w, []string{"Hour", "Avg Mood", "Entries"})
	data = nil
	for _, h := range resp.HourPatterns {
		data = append(data, []string{fmt.Sprintf("%02d:00", h.Hour), fmtScore(h.AvgMood), strconv.Itoa(h.EntryCount)})
	}
	if err := render(hours, data); err != nil {
		return err
	}

	s := resp.StreakInfo
	_, err := fmt.Fprintf(w, "Journaled on %d days. Best %s, worst %s\n", s.TotalDays, fmtScore(s.BestScore), fmtScore(s.WorstScore))
	return err
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
