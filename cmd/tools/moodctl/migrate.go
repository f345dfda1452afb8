package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/soulscroll/luma/internal/journal"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version|<n>]",
	Short: "Apply, roll back or inspect the journal schema",
	Long: `Manage the embedded journal schema migrations.

  moodctl migrate            apply all pending migrations
  moodctl migrate up         same as above
  moodctl migrate down       roll back every migration
  moodctl migrate 1          migrate up or down to version 1
  moodctl migrate version    print the current version`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		target, err := migrationTarget(action)
		if err != nil {
			return err
		}
		if cfg.Store.Table != journal.DefaultTable {
			return fmt.Errorf("%w: --table %s", journal.ErrCustomTableMigrate, cfg.Store.Table)
		}

		store, err := openStore(rootCtx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		sqlStore, ok := store.(*journal.SQLStore)
		if !ok {
			return fmt.Errorf("backend %q does not support migrations", cfg.Store.Backend)
		}

		if action != "version" {
			if err := journal.Migrate(sqlStore.DB(), sqlStore.Backend(), target); err != nil {
				return err
			}
		}

		v, dirty, err := journal.MigrationVersion(sqlStore.DB(), sqlStore.Backend())
		if err != nil {
			return err
		}

		state := color.GreenString("clean")
		if dirty {
			state = color.RedString("dirty")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d (%s)\n", sqlStore.Backend(), v, state)
		return err
	},
}

// migrationTarget maps an action to the version argument of journal.Migrate:
// negative for up, 0 for down, n for a specific version.
func migrationTarget(action string) (int, error) {
	switch action {
	case "up":
		return -1, nil
	case "down":
		return 0, nil
	case "version":
		return 0, nil
	}

	n, err := strconv.Atoi(action)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("unknown migrate action %q", action)
	}
	return n, nil
}
