package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Criticality values. A blocking stage halts the pipeline on failure; an
// advisory stage only records its failure.
const (
	Blocking = "blocking"
	Advisory = "advisory"
)

const defaultRetryDelay = 2 * time.Second

// Step is one external command execution within a pipeline.
type Step struct {
	Name              string            `yaml:"name" json:"name"`
	Run               string            `yaml:"run" json:"run,omitempty"`
	Criticality       string            `yaml:"criticality" json:"criticality"`
	Optional          bool              `yaml:"optional" json:"optional,omitempty"`
	TimeoutSeconds    int               `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
	RetryCount        int               `yaml:"retry_count" json:"retry_count,omitempty"`
	RetryDelaySeconds int               `yaml:"retry_delay_seconds" json:"retry_delay_seconds,omitempty"`
	WorkingDirectory  string            `yaml:"working_directory" json:"working_directory,omitempty"`
	Env               map[string]string `yaml:"env" json:"env,omitempty"`
}

// Skippable reports whether the stage is a configured skip: optional with
// no command left after environment expansion.
func (s Step) Skippable() bool {
	return s.Optional && strings.TrimSpace(s.Run) == ""
}

// Timeout returns the stage timeout, zero meaning none.
func (s Step) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed delay between retry attempts.
func (s Step) RetryDelay() time.Duration {
	if s.RetryDelaySeconds > 0 {
		return time.Duration(s.RetryDelaySeconds) * time.Second
	}
	return defaultRetryDelay
}

// Pipeline is an ordered stage list, immutable once loaded for a run.
type Pipeline struct {
	Name     string            `yaml:"-" json:"name"`
	Env      map[string]string `yaml:"env" json:"env,omitempty"`
	Requires []string          `yaml:"requires" json:"requires,omitempty"`
	Stages   []Step            `yaml:"stages" json:"stages"`
}

// ConfigError marks a structurally invalid pipeline definition. It is
// surfaced before any stage runs.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Validate checks the pipeline definition before execution: stage names
// unique and non-empty, commands present on required stages, known
// criticalities, sane numeric options, and every required environment
// variable set. Any violation is a ConfigError.
func (p *Pipeline) Validate() error {
	if len(p.Stages) == 0 {
		return configErrorf("pipeline %q has no stages", p.Name)
	}

	seen := make(map[string]struct{}, len(p.Stages))
	for _, stage := range p.Stages {
		if strings.TrimSpace(stage.Name) == "" {
			return configErrorf("pipeline %q has a stage without a name", p.Name)
		}
		if _, dup := seen[stage.Name]; dup {
			return configErrorf("pipeline %q has duplicate stage %q", p.Name, stage.Name)
		}
		seen[stage.Name] = struct{}{}

		if strings.TrimSpace(stage.Run) == "" && !stage.Optional {
			return configErrorf("stage %q has no command and is not optional", stage.Name)
		}
		switch stage.Criticality {
		case Blocking, Advisory:
		default:
			return configErrorf("stage %q has unknown criticality %q", stage.Name, stage.Criticality)
		}
		if stage.TimeoutSeconds < 0 {
			return configErrorf("stage %q has negative timeout_seconds", stage.Name)
		}
		if stage.RetryCount < 0 {
			return configErrorf("stage %q has negative retry_count", stage.Name)
		}
	}

	for _, name := range p.Requires {
		if os.Getenv(name) == "" {
			return configErrorf("pipeline %q requires environment variable %s", p.Name, name)
		}
	}

	return nil
}
