package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caldros/shipit/internal/report"
)

const maxRecordBytes = 16 * 1024 * 1024

// Store appends completed RunReports to a JSONL file and reads them back.
type Store struct {
	path string
}

// DefaultPath places the run log under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "shipit", "runs.jsonl"), nil
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append writes one report as a single JSON line, creating the parent
// directory on first use.
func (s *Store) Append(rep report.RunReport) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append run report: %w", err)
	}
	return f.Close()
}

// List returns up to limit reports, newest first. A missing file is an
// empty history, not an error. Unreadable lines are skipped.
func (s *Store) List(limit int) ([]report.RunReport, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var reports []report.RunReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	for scanner.Scan() {
		var rep report.RunReport
		if err := json.Unmarshal(scanner.Bytes(), &rep); err != nil {
			continue
		}
		// Durations are serialized as milliseconds only; restore the
		// time.Duration fields dropped by the JSON round trip.
		rep.Duration = time.Duration(rep.DurationMS) * time.Millisecond
		for i := range rep.Results {
			rep.Results[i].Duration = time.Duration(rep.Results[i].DurationMS) * time.Millisecond
		}
		reports = append(reports, rep)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}
