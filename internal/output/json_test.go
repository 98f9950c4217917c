package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/caldros/shipit/internal/report"
)

func TestJSONRenderReport(t *testing.T) {
	rep := report.RunReport{
		ID:            "run-1",
		Pipeline:      "deploy",
		OverallStatus: report.RunSuccess,
		Results: []report.StepResult{
			{StepName: "build", Status: report.StatusPassed, Attempt: 1, Criticality: "blocking"},
		},
	}

	buf := &bytes.Buffer{}
	if err := NewJSON(buf).Render(rep); err != nil {
		t.Fatalf("render json: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded["pipeline"] != "deploy" || decoded["overall_status"] != "success" {
		t.Fatalf("unexpected decoded report: %v", decoded)
	}
	results, ok := decoded["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("expected one result, got %v", decoded["results"])
	}
	first := results[0].(map[string]any)
	if first["step_name"] != "build" || first["status"] != "passed" {
		t.Fatalf("unexpected result: %v", first)
	}
}

func TestJSONRenderOmitsEmptyAbort(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewJSON(buf).Render(report.RunReport{OverallStatus: report.RunSuccess}); err != nil {
		t.Fatalf("render json: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("aborted_at")) {
		t.Fatalf("expected aborted_at omitted, got %s", buf.String())
	}
}
