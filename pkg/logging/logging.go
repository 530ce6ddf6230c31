// Package logging builds the structured logger used by the command line
// tools. Libraries take a *slog.Logger and fall back to slog.Default().
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Formats we know how to write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel turns DEBUG, INFO, WARN (or WARNING), ERROR into a level.
// Case does not matter and "" is INFO.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// New returns a logger writing to w at the given level. format is
// "text" or "json", "" meaning text.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(format) {
	case FormatText, "":
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q, want %s or %s", format, FormatText, FormatJSON)
	}
	return slog.New(h), nil
}

// Discard is a logger that throws everything away, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
