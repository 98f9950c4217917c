package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shipit",
		Short:         "Shipit drives gated deployment pipelines",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringP("file", "f", "", "pipeline definition file (default shipit.yml)")
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.String("env-file", "", "env file to load before running (default .env)")
	persistent.Bool("dry-run", false, "print commands without executing them")
	persistent.BoolP("verbose", "v", false, "stream command output in real time")
	persistent.Int("tail-lines", 0, "captured output lines kept on failure")
	persistent.Bool("no-history", false, "do not record the run in the history file")
	persistent.String("log-level", "", "logging level (debug|info|warn|error)")
	persistent.String("log-format", "", "logging format (tint|text|json)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}
