package pipeline

import (
	"errors"
	"testing"
	"time"
)

func validPipeline() *Pipeline {
	return &Pipeline{
		Name: "deploy",
		Stages: []Step{
			{Name: "build", Run: "docker build .", Criticality: Blocking},
			{Name: "notify", Criticality: Advisory, Optional: true},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := validPipeline().Validate(); err != nil {
		t.Fatalf("expected valid pipeline, got %v", err)
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	p := validPipeline()
	p.Stages = append(p.Stages, Step{Name: "build", Run: "true", Criticality: Blocking})

	err := p.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestValidateMissingCommand(t *testing.T) {
	p := validPipeline()
	p.Stages[0].Run = "  "

	err := p.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing command, got %v", err)
	}
}

func TestValidateUnknownCriticality(t *testing.T) {
	p := validPipeline()
	p.Stages[0].Criticality = "critical"

	var cfgErr *ConfigError
	if !errors.As(p.Validate(), &cfgErr) {
		t.Fatalf("expected ConfigError for unknown criticality")
	}
}

func TestValidateNegativeOptions(t *testing.T) {
	p := validPipeline()
	p.Stages[0].TimeoutSeconds = -1
	var cfgErr *ConfigError
	if !errors.As(p.Validate(), &cfgErr) {
		t.Fatalf("expected ConfigError for negative timeout")
	}

	p = validPipeline()
	p.Stages[0].RetryCount = -2
	if !errors.As(p.Validate(), &cfgErr) {
		t.Fatalf("expected ConfigError for negative retry count")
	}
}

func TestValidateNoStages(t *testing.T) {
	p := &Pipeline{Name: "deploy"}
	var cfgErr *ConfigError
	if !errors.As(p.Validate(), &cfgErr) {
		t.Fatalf("expected ConfigError for empty stage list")
	}
}

func TestValidateRequiredEnv(t *testing.T) {
	p := validPipeline()
	p.Requires = []string{"SHIPIT_TEST_REQUIRED_VAR"}

	var cfgErr *ConfigError
	if !errors.As(p.Validate(), &cfgErr) {
		t.Fatalf("expected ConfigError for missing required env var")
	}

	t.Setenv("SHIPIT_TEST_REQUIRED_VAR", "set")
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid pipeline with env var set, got %v", err)
	}
}

func TestStepSkippable(t *testing.T) {
	s := Step{Name: "notify", Optional: true}
	if !s.Skippable() {
		t.Fatalf("expected optional empty step to be skippable")
	}
	s.Run = "curl hook"
	if s.Skippable() {
		t.Fatalf("expected step with command not skippable")
	}
	s = Step{Name: "build"}
	if s.Skippable() {
		t.Fatalf("expected non-optional step not skippable")
	}
}

func TestStepRetryDelay(t *testing.T) {
	s := Step{}
	if got := s.RetryDelay(); got != 2*time.Second {
		t.Fatalf("expected default retry delay 2s, got %s", got)
	}
	s.RetryDelaySeconds = 5
	if got := s.RetryDelay(); got != 5*time.Second {
		t.Fatalf("expected retry delay 5s, got %s", got)
	}
}

func TestStepTimeout(t *testing.T) {
	s := Step{TimeoutSeconds: 30}
	if got := s.Timeout(); got != 30*time.Second {
		t.Fatalf("expected timeout 30s, got %s", got)
	}
	if (Step{}).Timeout() != 0 {
		t.Fatalf("expected zero timeout by default")
	}
}
