package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Video-surveillance webhook ingestion service",
	Long: `api receives webhook notifications from the video platform, extracts
camera, scenario and timing fields, and records each event once in the
webhook_jobs queue table.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, resolveCmd)
}

// main boots the service; `api` with no subcommand behaves like `api serve`.
func main() {
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
