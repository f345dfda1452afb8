package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/journal"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set by the linker at build time.
var version = "dev"

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
)

var rootCtx = context.Background()

// cfg holds the service configuration with flag overrides applied.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:           "moodctl",
	Short:         "Operate the Luma journal store and run mood analyses offline",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the service configuration file")
	flags.String("backend", "", "Store backend override: sqlite, mysql, postgresql")
	flags.String("dsn", "", "Store DSN override")
	flags.String("table", "", "Journal table override")
	flags.String("timezone", "", "Timezone for weekday/hour bucketing (e.g. Asia/Tokyo, +09:00)")
	flags.StringP("output", "o", outputTable, "Output format: table or json")
	flags.Bool("no-color", false, "Disable colored output")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("MOODCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(migrateCmd, seedCmd, trendCmd, outliersCmd, patternsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the service configuration and applies flag/env overrides.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	cfg = loaded

	if v := viper.GetString("backend"); v != "" {
		cfg.Store.Backend = v
	}
	if v := viper.GetString("dsn"); v != "" {
		cfg.Store.DSN = v
	}
	if v := viper.GetString("table"); v != "" {
		cfg.Store.Table = v
	}
	if v := viper.GetString("timezone"); v != "" {
		cfg.Analytics.Timezone = v
	}
	// migrations only run through "moodctl migrate"
	cfg.Store.Migrate = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch viper.GetString("output") {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("unsupported output format %q", viper.GetString("output"))
	}

	if viper.GetBool("no-color") {
		color.NoColor = true
	}

	// keep driver and migration noise off the terminal
	logging.SetGlobal(logging.NewNop())
	return nil
}

// openStore opens the configured store. The CLI never migrates implicitly.
func openStore(ctx context.Context) (journal.Store, error) {
	opts := journal.OptionsFromConfig(cfg.Store)
	if opts.Backend == journal.BackendMemory {
		return nil, fmt.Errorf("the memory backend holds no data outside a running process")
	}
	return journal.Open(ctx, opts)
}
