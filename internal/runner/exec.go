package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/caldros/shipit/internal/pipeline"
	"github.com/caldros/shipit/internal/report"
)

// executeStep launches one attempt of a stage's command and captures the
// outcome. It never returns an error: a non-zero exit is a normal,
// representable result, and invocation-level failures (program not found,
// bad working directory) are recorded with ExitInvocationError.
func (r *Runner) executeStep(ctx context.Context, p *pipeline.Pipeline, stage pipeline.Step, attempt int) report.StepResult {
	res := report.StepResult{
		StepName:    stage.Name,
		Command:     stage.Run,
		Criticality: stage.Criticality,
		Attempt:     attempt,
		StartedAt:   r.opts.Now(),
	}

	workdir, err := resolveWorkingDirectory(r.opts.Root, stage.WorkingDirectory)
	if err != nil {
		return r.finish(res, report.ExitInvocationError, err.Error())
	}

	runCtx := ctx
	if stage.Timeout() > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, stage.Timeout())
		defer cancel()
	}

	args := shellCommand(stage.Run)
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = workdir
	cmd.Env = mergeEnv(r.opts.Env, p.Env, stage.Env)

	var stdoutBuf, stderrBuf strings.Builder
	if r.opts.Verbose {
		cmd.Stdout = io.MultiWriter(r.opts.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.opts.Stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err = cmd.Run()

	res.FinishedAt = r.opts.Now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	res.DurationMS = res.Duration.Milliseconds()
	res.Stdout = stdoutBuf.String()
	res.Stderr = stderrBuf.String()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.Status = report.StatusFailed
		res.ExitCode = exitCode(err)
		res.Stderr = trimOutput(res.Stderr, r.opts.TailLines)
		res.Stdout = trimOutput(res.Stdout, r.opts.TailLines)
		return res
	}

	switch {
	case err == nil:
		res.Status = report.StatusPassed
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// The shell itself could not be started.
			res.ExitCode = report.ExitInvocationError
			res.Stderr = err.Error()
		}
		res.Status = report.StatusFailed
		res.Stderr = trimOutput(res.Stderr, r.opts.TailLines)
		res.Stdout = trimOutput(res.Stdout, r.opts.TailLines)
	}

	return res
}

func (r *Runner) finish(res report.StepResult, code int, stderr string) report.StepResult {
	res.FinishedAt = r.opts.Now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	res.DurationMS = res.Duration.Milliseconds()
	res.Status = report.StatusFailed
	res.ExitCode = code
	res.Stderr = stderr
	return res
}

// shellCommand wraps the configured command line for the platform shell.
func shellCommand(run string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", run}
	}
	return []string{"sh", "-c", run}
}

func resolveWorkingDirectory(root, dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		if root != "" {
			return root, nil
		}
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		return cwd, nil
	}

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("working directory %q not found", dir)
		}
		return "", fmt.Errorf("stat working directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %q is not a directory", dir)
	}
	return dir, nil
}

func mergeEnv(base []string, overlays ...map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(overlays)*4)
	for _, kv := range base {
		if idx := strings.Index(kv, "="); idx != -1 {
			envMap[kv[:idx]] = kv[idx+1:]
		}
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			envMap[k] = v
		}
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return out
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// trimOutput keeps the last maxLines lines of captured output on failure.
func trimOutput(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
