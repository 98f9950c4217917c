package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures CLI options sourced from .shipit.yml or flags.
type Config struct {
	File      string `yaml:"file"`
	Format    string `yaml:"format"`
	Verbose   bool   `yaml:"verbose"`
	DryRun    bool   `yaml:"dry_run"`
	TailLines int    `yaml:"tail_lines"`

	EnvFile   string `yaml:"env_file"`
	NoHistory bool   `yaml:"no_history"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// DefaultFile is the pipeline definition looked up beside the repo.
	DefaultFile = "shipit.yml"

	configName = ".shipit.yml"
)

// Default returns the baseline configuration used when no flags or config
// file specify values.
func Default() Config {
	return Config{
		File:      DefaultFile,
		Format:    FormatPretty,
		TailLines: 20,
		EnvFile:   ".env",
		LogLevel:  "info",
		LogFormat: "tint",
	}
}

// Load reads .shipit.yml from the working directory when present. Missing
// files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, configName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return merge(cfg, fileCfg), nil
}

func merge(base, override Config) Config {
	out := base

	if override.File != "" {
		out.File = override.File
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.TailLines > 0 {
		out.TailLines = override.TailLines
	}
	if override.EnvFile != "" {
		out.EnvFile = override.EnvFile
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.LogFormat != "" {
		out.LogFormat = override.LogFormat
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.NoHistory {
		out.NoHistory = true
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.File.Set {
		cfg.File = flags.File.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.EnvFile.Set {
		cfg.EnvFile = flags.EnvFile.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
	if flags.LogFormat.Set {
		cfg.LogFormat = flags.LogFormat.Value
	}
	if flags.TailLines.Set {
		cfg.TailLines = flags.TailLines.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.NoHistory.Set {
		cfg.NoHistory = flags.NoHistory.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag
// was set explicitly.
type FlagValues struct {
	File      StringFlag
	Format    StringFlag
	EnvFile   StringFlag
	LogLevel  StringFlag
	LogFormat StringFlag
	TailLines IntFlag
	Verbose   BoolFlag
	DryRun    BoolFlag
	NoHistory BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
