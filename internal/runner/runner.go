package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/caldros/shipit/internal/pipeline"
	"github.com/caldros/shipit/internal/report"
)

// Options configure how the runner executes pipeline stages.
type Options struct {
	Root      string
	Stdout    io.Writer
	Stderr    io.Writer
	Verbose   bool
	DryRun    bool
	TailLines int
	Env       []string
	Now       func() time.Time
	NewID     func() string
	Sleep     func(time.Duration)
}

// Runner executes a pipeline's stages sequentially, enforcing gating.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Runner{opts: opts}
}

// Run drives the pipeline end to end and produces a RunReport. Stages
// execute strictly in declared order. A blocking stage that fails halts
// the run; an advisory failure is recorded and execution continues. A
// timeout halts regardless of criticality. Per-step errors never
// propagate; they are captured into StepResults and decided here.
func (r *Runner) Run(ctx context.Context, p *pipeline.Pipeline) report.RunReport {
	rep := report.RunReport{
		ID:        r.opts.NewID(),
		Pipeline:  p.Name,
		Results:   make([]report.StepResult, 0, len(p.Stages)),
		StartedAt: r.opts.Now(),
	}

	aborted := false
	blockingFailed := false

	for _, stage := range p.Stages {
		if stage.Skippable() {
			slog.Debug("stage skipped", "pipeline", p.Name, "stage", stage.Name)
			rep.Results = append(rep.Results, r.skippedResult(stage, "no command configured"))
			continue
		}
		if r.opts.DryRun {
			res := r.skippedResult(stage, "")
			res.DryRun = true
			rep.Results = append(rep.Results, res)
			continue
		}

		slog.Info("stage starting", "pipeline", p.Name, "stage", stage.Name, "criticality", stage.Criticality)

		attempts := stage.RetryCount + 1
		var last report.StepResult
		for attempt := 1; attempt <= attempts; attempt++ {
			last = r.executeStep(ctx, p, stage, attempt)
			rep.Results = append(rep.Results, last)
			if !last.Failed() {
				break
			}
			if attempt < attempts {
				slog.Warn("stage failed, retrying",
					"stage", stage.Name, "attempt", attempt, "exit_code", last.ExitCode, "delay", stage.RetryDelay())
				r.opts.Sleep(stage.RetryDelay())
			}
		}

		if !last.Failed() {
			slog.Info("stage passed", "stage", stage.Name, "duration", last.Duration)
			continue
		}

		if stage.Criticality == pipeline.Blocking {
			blockingFailed = true
		}
		// Timeouts indicate a stuck tool, not merely an unsuccessful
		// one; they halt even advisory stages.
		if stage.Criticality == pipeline.Blocking || last.TimedOut {
			slog.Error("stage failed, aborting pipeline",
				"stage", stage.Name, "exit_code", last.ExitCode, "timed_out", last.TimedOut)
			rep.AbortedAt = stage.Name
			aborted = true
			break
		}

		slog.Warn("advisory stage failed, continuing", "stage", stage.Name, "exit_code", last.ExitCode)
	}

	rep.FinishedAt = r.opts.Now()
	rep.Duration = rep.FinishedAt.Sub(rep.StartedAt)
	rep.DurationMS = rep.Duration.Milliseconds()

	switch {
	case aborted:
		rep.OverallStatus = report.RunAborted
	case blockingFailed:
		rep.OverallStatus = report.RunFailed
	default:
		rep.OverallStatus = report.RunSuccess
	}

	return rep
}

func (r *Runner) skippedResult(stage pipeline.Step, note string) report.StepResult {
	now := r.opts.Now()
	return report.StepResult{
		StepName:    stage.Name,
		Command:     stage.Run,
		Criticality: stage.Criticality,
		Attempt:     1,
		Status:      report.StatusSkipped,
		Stderr:      note,
		StartedAt:   now,
		FinishedAt:  now,
		Skipped:     true,
	}
}
