package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/config"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Manage the webhook_jobs schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	out := cmd.OutOrStdout()
	switch action {
	case "up":
		if err := store.MigrateUp(cfg.Database.URL, cfg.Database.SSLMode); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
	case "down":
		if err := store.MigrateDown(cfg.Database.URL, cfg.Database.SSLMode); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations rolled back")
	case "version":
		v, dirty, err := store.MigrationVersion(cfg.Database.URL, cfg.Database.SSLMode)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "version %d (dirty: %t)\n", v, dirty)
	}
	return nil
}
