package report

import "time"

// Step statuses as recorded in a RunReport.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Overall run statuses.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
	RunAborted = "aborted"
)

// ExitInvocationError is the exit code recorded when the program could not
// be started at all (not found, permission denied, bad working directory).
const ExitInvocationError = 127

// StepResult captures the outcome of a single stage attempt.
type StepResult struct {
	StepName    string        `json:"step_name"`
	Command     string        `json:"command,omitempty"`
	Criticality string        `json:"criticality"`
	Attempt     int           `json:"attempt"`
	Status      string        `json:"status"`
	ExitCode    int           `json:"exit_code"`
	Stdout      string        `json:"stdout,omitempty"`
	Stderr      string        `json:"stderr,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	TimedOut    bool          `json:"timed_out"`
	Skipped     bool          `json:"skipped"`
	DryRun      bool          `json:"dry_run,omitempty"`
}

// Failed reports whether this attempt counts as a failure for gating.
// ExitCode is only meaningful when TimedOut is false.
func (r StepResult) Failed() bool {
	return r.Status == StatusFailed
}

// RunReport is the complete record of one pipeline execution.
type RunReport struct {
	ID            string        `json:"id"`
	Pipeline      string        `json:"pipeline"`
	Results       []StepResult  `json:"results"`
	AbortedAt     string        `json:"aborted_at,omitempty"`
	OverallStatus string        `json:"overall_status"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	Duration      time.Duration `json:"-"`
	DurationMS    int64         `json:"duration_ms"`
}

// ExitCode maps the overall status to the orchestrator's process exit code.
func (r RunReport) ExitCode() int {
	if r.OverallStatus == RunSuccess {
		return 0
	}
	return 1
}

// Summary aggregates per-stage outcomes for rendering.
type Summary struct {
	TotalSteps int           `json:"total_steps"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// Summarize counts per-stage outcomes across every recorded attempt.
func Summarize(rep RunReport) Summary {
	s := Summary{TotalSteps: len(rep.Results), Duration: rep.Duration, DurationMS: rep.DurationMS}
	for _, res := range rep.Results {
		switch res.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}
