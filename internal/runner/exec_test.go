package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/caldros/shipit/internal/pipeline"
	"github.com/caldros/shipit/internal/report"
)

func TestExecuteStepCapturesStdout(t *testing.T) {
	r := New(Options{Root: t.TempDir()})
	res := r.executeStep(context.Background(), &pipeline.Pipeline{}, stage("echo", "echo hi"), 1)

	if res.Status != report.StatusPassed || res.ExitCode != 0 {
		t.Fatalf("expected passed result, got %+v", res)
	}
	if strings.TrimSpace(res.Stdout) != "hi" {
		t.Fatalf("expected stdout 'hi', got %q", res.Stdout)
	}
}

func TestExecuteStepExitCode(t *testing.T) {
	r := New(Options{Root: t.TempDir()})
	res := r.executeStep(context.Background(), &pipeline.Pipeline{}, stage("fail", "exit 3"), 1)

	if res.Status != report.StatusFailed {
		t.Fatalf("expected failed status, got %+v", res)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
}

func TestExecuteStepEnvMerge(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("env merge test requires POSIX shell")
	}
	r := New(Options{Root: t.TempDir()})
	p := &pipeline.Pipeline{Env: map[string]string{"PIPE_VAR": "pipe", "SHARED": "pipe"}}
	st := stage("env", "echo $PIPE_VAR-$SHARED-$STEP_VAR")
	st.Env = map[string]string{"STEP_VAR": "step", "SHARED": "step"}

	res := r.executeStep(context.Background(), p, st, 1)
	if want := "pipe-step-step"; !strings.Contains(res.Stdout, want) {
		t.Fatalf("expected output %q, got %q", want, res.Stdout)
	}
}

func TestExecuteStepWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("working directory test uses pwd")
	}
	root := t.TempDir()
	sub := filepath.Join(root, "subdir")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir subdir: %v", err)
	}
	r := New(Options{Root: root})
	st := stage("pwd", "pwd")
	st.WorkingDirectory = "subdir"

	res := r.executeStep(context.Background(), &pipeline.Pipeline{}, st, 1)
	if !strings.Contains(res.Stdout, "subdir") {
		t.Fatalf("expected working dir output to include subdir, got %q", res.Stdout)
	}
}

func TestExecuteStepBadWorkingDirectory(t *testing.T) {
	r := New(Options{Root: t.TempDir()})
	st := stage("build", "true")
	st.WorkingDirectory = "missing"

	res := r.executeStep(context.Background(), &pipeline.Pipeline{}, st, 1)
	if res.Status != report.StatusFailed {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if res.ExitCode != report.ExitInvocationError {
		t.Fatalf("expected invocation error exit code, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "missing") {
		t.Fatalf("expected stderr to name the directory, got %q", res.Stderr)
	}
}

func TestExecuteStepCommandNotFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("not-found exit code is shell specific")
	}
	r := New(Options{Root: t.TempDir()})
	res := r.executeStep(context.Background(), &pipeline.Pipeline{},
		stage("ghost", "definitely-not-a-real-command-xyz"), 1)

	if res.Status != report.StatusFailed {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if res.ExitCode != 127 {
		t.Fatalf("expected shell not-found exit 127, got %d", res.ExitCode)
	}
}

func TestExecuteStepTailTrimOnFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tail test requires POSIX tools")
	}
	r := New(Options{Root: t.TempDir(), TailLines: 2})
	res := r.executeStep(context.Background(), &pipeline.Pipeline{},
		stage("noisy", "printf '1\\n2\\n3\\n'; exit 1"), 1)

	if got := strings.TrimSpace(res.Stdout); got != "2\n3" {
		t.Fatalf("expected tail '2\\n3', got %q", got)
	}
}

func TestMergeEnvOverlayOrder(t *testing.T) {
	base := []string{"A=base", "B=base"}
	merged := mergeEnv(base, map[string]string{"B": "one", "C": "one"}, map[string]string{"C": "two"})

	want := []string{"A=base", "B=one", "C=two"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("expected sorted merged env %v, got %v", want, merged)
		}
	}
}

func TestTrimOutput(t *testing.T) {
	if got := trimOutput("1\n2\n3\n", 2); got != "2\n3" {
		t.Fatalf("expected last two lines, got %q", got)
	}
	if got := trimOutput("short", 5); got != "short" {
		t.Fatalf("expected untouched output, got %q", got)
	}
	if got := trimOutput("", 5); got != "" {
		t.Fatalf("expected empty output unchanged, got %q", got)
	}
}

func TestResolveWorkingDirectoryDefaultsToRoot(t *testing.T) {
	root := t.TempDir()
	got, err := resolveWorkingDirectory(root, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %q, got %q", root, got)
	}
}
