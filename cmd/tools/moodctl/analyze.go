package main

import (
	"encoding/json"
	"io"

	"github.com/soulscroll/luma/internal/journal"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/soulscroll/luma/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var trendCmd = &cobra.Command{
	Use:     "trend",
	Short:   "Rolling mood trend with rolling-window outliers",
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")
		window, _ := cmd.Flags().GetInt("window")

		return withService(func(svc *services.MoodService) error {
			resp, err := svc.GetMoodTrend(rootCtx, userFlag(cmd), days, window)
			if err != nil {
				return err
			}
			if asJSON() {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writeTrendTable(cmd.OutOrStdout(), resp)
		})
	},
}

var outliersCmd = &cobra.Command{
	Use:     "outliers",
	Short:   "Entries that deviate from the user's overall mood baseline",
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")

		return withService(func(svc *services.MoodService) error {
			resp, err := svc.GetMoodOutliers(rootCtx, userFlag(cmd), days)
			if err != nil {
				return err
			}
			if asJSON() {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writeOutliersTable(cmd.OutOrStdout(), resp)
		})
	},
}

var patternsCmd = &cobra.Command{
	Use:     "patterns",
	Short:   "Mood by weekday and hour over the pattern window",
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *services.MoodService) error {
			resp, err := svc.GetPatterns(rootCtx, userFlag(cmd))
			if err != nil {
				return err
			}
			if asJSON() {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writePatternsTable(cmd.OutOrStdout(), resp)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{trendCmd, outliersCmd, patternsCmd} {
		c.Flags().StringP("user", "u", "", "User id to analyze")
		_ = c.MarkFlagRequired("user")
	}
	trendCmd.Flags().Int("days", 0, "Lookback in days (0 uses the configured default)")
	trendCmd.Flags().Int("window", 0, "Rolling window size (0 uses the configured default)")
	outliersCmd.Flags().Int("days", 0, "Lookback in days (0 uses the configured default)")
}

// withService runs fn against a MoodService backed by the configured store.
// Store failures surface as DATA_UNAVAILABLE errors rather than empty output.
func withService(fn func(*services.MoodService) error) error {
	store, err := openStore(rootCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := services.NewMoodService(logging.Global(), journal.NewLoader(store), nil, cfg.Analytics)
	return fn(svc)
}

func userFlag(cmd *cobra.Command) string {
	user, _ := cmd.Flags().GetString("user")
	return user
}

func asJSON() bool {
	return viper.GetString("output") == outputJSON
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
