package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caldros/shipit/internal/config"
	"github.com/caldros/shipit/internal/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pipeline]",
		Short: "List pipelines and their stages",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	file, err := loadDefinition(root, cfg)
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		if len(args) == 1 {
			pl, err := file.Pipeline(args[0])
			if err != nil {
				return err
			}
			return renderer.RenderPipeline(args[0], *pl)
		}
		return renderer.RenderPipelines(file)
	case config.FormatJSON:
		renderer := output.NewJSON(cmd.OutOrStdout())
		if len(args) == 1 {
			pl, err := file.Pipeline(args[0])
			if err != nil {
				return err
			}
			return renderer.Render(pl)
		}
		return renderer.Render(file.Pipelines)
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}
