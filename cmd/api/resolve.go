package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/payload"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file|-]",
	Short: "Print the fields extracted from a webhook payload without storing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	body, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	tree, err := payload.Parse(body)
	if err != nil {
		return err
	}

	rec := resolver.New().Resolve(tree)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
