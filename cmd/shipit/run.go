package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caldros/shipit/internal/config"
	"github.com/caldros/shipit/internal/history"
	"github.com/caldros/shipit/internal/output"
	"github.com/caldros/shipit/internal/report"
	"github.com/caldros/shipit/internal/runner"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <pipeline>",
		Short: "Execute a pipeline end to end",
		Args:  cobra.ExactArgs(1),
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := initLogging(cmd, cfg); err != nil {
		return err
	}
	if err := includeEnv(root, cfg); err != nil {
		return err
	}

	file, err := loadDefinition(root, cfg)
	if err != nil {
		return err
	}
	pl, err := file.Pipeline(args[0])
	if err != nil {
		return err
	}
	if err := pl.Validate(); err != nil {
		return err
	}

	execRunner := runner.New(runner.Options{
		Root:      root,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose,
		DryRun:    cfg.DryRun,
		TailLines: cfg.TailLines,
	})
	rep := execRunner.Run(cmd.Context(), pl)

	if !cfg.NoHistory && !cfg.DryRun {
		recordRun(rep)
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		if err := renderer.RenderReport(rep); err != nil {
			return err
		}
	case config.FormatJSON:
		renderer := output.NewJSON(cmd.OutOrStdout())
		if err := renderer.Render(rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if rep.ExitCode() != 0 {
		return fmt.Errorf("pipeline %q %s", rep.Pipeline, rep.OverallStatus)
	}
	return nil
}

// recordRun persists the report best-effort; a broken history file must
// never change a run's outcome.
func recordRun(rep report.RunReport) {
	path, err := history.DefaultPath()
	if err != nil {
		slog.Warn("run not recorded", "error", err)
		return
	}
	if err := history.NewStore(path).Append(rep); err != nil {
		slog.Warn("run not recorded", "error", err)
	}
}
