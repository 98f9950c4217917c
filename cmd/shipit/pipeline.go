package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/caldros/shipit/internal/config"
	"github.com/caldros/shipit/internal/logging"
	"github.com/caldros/shipit/internal/pipeline"
)

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

func initLogging(cmd *cobra.Command, cfg config.Config) error {
	return logging.Initialize(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
}

// includeEnv loads the configured env file before the definition is read,
// so hook URLs and generator config paths can live beside the repo.
// A missing file is fine.
func includeEnv(root string, cfg config.Config) error {
	path := cfg.EnvFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func loadDefinition(root string, cfg config.Config) (*pipeline.File, error) {
	path := cfg.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return pipeline.LoadFile(path)
}
