package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caldros/shipit/internal/pipeline"
	"github.com/caldros/shipit/internal/report"
)

// PrettyRenderer renders execution results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderReport shows per-stage outcomes followed by a summary line.
func (p *PrettyRenderer) RenderReport(rep report.RunReport) error {
	if _, err := fmt.Fprintf(p.out, "Pipeline %s\n", rep.Pipeline); err != nil {
		return err
	}

	for _, res := range rep.Results {
		label := res.StepName
		if res.Attempt > 1 {
			label = fmt.Sprintf("%s (attempt %d)", res.StepName, res.Attempt)
		}
		fmt.Fprintf(p.out, "  %s %s (%s)\n", statusGlyph(res.Status), label, formatDuration(res.Duration))

		if res.TimedOut {
			fmt.Fprintf(p.out, "      timed out\n")
		}
		if res.Status == report.StatusFailed && res.Stderr != "" {
			fmt.Fprintf(p.out, "      stderr: %s\n", indent(res.Stderr, "      "))
		}
		if res.Skipped && res.Stderr != "" {
			fmt.Fprintf(p.out, "      note: %s\n", indent(res.Stderr, "      "))
		}
		if res.DryRun {
			fmt.Fprintf(p.out, "      command: %s\n", res.Command)
		}
	}

	if rep.AbortedAt != "" {
		fmt.Fprintf(p.out, "Aborted at stage %q\n", rep.AbortedAt)
	}

	s := report.Summarize(rep)
	_, err := fmt.Fprintf(p.out, "SUMMARY: %s, %d passed, %d failed, %d skipped (%s)\n",
		rep.OverallStatus, s.Passed, s.Failed, s.Skipped, formatDuration(s.Duration))
	return err
}

// RenderPipelines lists pipelines and their stages without executing.
func (p *PrettyRenderer) RenderPipelines(file *pipeline.File) error {
	for _, name := range file.Names() {
		pl := file.Pipelines[name]
		if err := p.renderPipeline(name, pl); err != nil {
			return err
		}
	}
	return nil
}

// RenderPipeline lists a single pipeline's stages.
func (p *PrettyRenderer) RenderPipeline(name string, pl pipeline.Pipeline) error {
	return p.renderPipeline(name, pl)
}

func (p *PrettyRenderer) renderPipeline(name string, pl pipeline.Pipeline) error {
	if _, err := fmt.Fprintf(p.out, "Pipeline %s\n", name); err != nil {
		return err
	}
	for i, stage := range pl.Stages {
		detail := stage.Criticality
		if stage.Skippable() {
			detail += ", skip"
		} else if stage.Optional {
			detail += ", optional"
		}
		if stage.TimeoutSeconds > 0 {
			detail += fmt.Sprintf(", timeout %ds", stage.TimeoutSeconds)
		}
		if stage.RetryCount > 0 {
			detail += fmt.Sprintf(", retries %d", stage.RetryCount)
		}
		if _, err := fmt.Fprintf(p.out, "  %d. %s (%s)\n", i+1, stage.Name, detail); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory shows one line per stored run, newest first.
func (p *PrettyRenderer) RenderHistory(reports []report.RunReport) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(p.out, "No recorded runs")
		return err
	}
	for _, rep := range reports {
		s := report.Summarize(rep)
		_, err := fmt.Fprintf(p.out, "%s  %-10s %-8s %d stages (%s)\n",
			rep.StartedAt.Format(time.RFC3339), rep.Pipeline, rep.OverallStatus, s.TotalSteps, formatDuration(rep.Duration))
		if err != nil {
			return err
		}
	}
	return nil
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
