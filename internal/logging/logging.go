package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Initialize installs the default slog handler for the given format and
// level name.
func Initialize(out io.Writer, format, levelName string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("parse log level %q: %w", levelName, err)
	}

	opts := slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case JSON:
		handler = slog.NewJSONHandler(out, &opts)
	case Text:
		handler = slog.NewTextHandler(out, &opts)
	case Tint:
		handler = tint.NewHandler(out, &tint.Options{Level: level})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
