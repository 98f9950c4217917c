package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caldros/shipit/internal/config"
	"github.com/caldros/shipit/internal/history"
	"github.com/caldros/shipit/internal/output"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE:  runHistory,
	}
	cmd.Flags().Int("limit", 10, "maximum number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("parse --limit: %w", err)
	}

	path, err := history.DefaultPath()
	if err != nil {
		return err
	}
	reports, err := history.NewStore(path).List(limit)
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		return output.NewPretty(cmd.OutOrStdout()).RenderHistory(reports)
	case config.FormatJSON:
		return output.NewJSON(cmd.OutOrStdout()).Render(reports)
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}
