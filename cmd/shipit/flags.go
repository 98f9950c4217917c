package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caldros/shipit/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("file") {
		v, err := flags.GetString("file")
		if err != nil {
			return values, fmt.Errorf("parse --file: %w", err)
		}
		values.File = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("env-file") {
		v, err := flags.GetString("env-file")
		if err != nil {
			return values, fmt.Errorf("parse --env-file: %w", err)
		}
		values.EnvFile = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("log-level") {
		v, err := flags.GetString("log-level")
		if err != nil {
			return values, fmt.Errorf("parse --log-level: %w", err)
		}
		values.LogLevel = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("log-format") {
		v, err := flags.GetString("log-format")
		if err != nil {
			return values, fmt.Errorf("parse --log-format: %w", err)
		}
		values.LogFormat = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("tail-lines") {
		v, err := flags.GetInt("tail-lines")
		if err != nil {
			return values, fmt.Errorf("parse --tail-lines: %w", err)
		}
		values.TailLines = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("no-history") {
		v, err := flags.GetBool("no-history")
		if err != nil {
			return values, fmt.Errorf("parse --no-history: %w", err)
		}
		values.NoHistory = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
