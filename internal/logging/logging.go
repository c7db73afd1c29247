// Package logging builds the charmbracelet/log loggers used across blockfall.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// New creates a timestamped logger writing to w.
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, "", log.FatalLevel)
}

// OpenFile creates a debug-level logger appending to path. Use it for the
// interactive game, where writing to stderr would corrupt the screen.
// The caller closes the returned file.
func OpenFile(path, prefix string) (*log.Logger, *os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: cannot create directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: cannot open %s: %w", path, err)
	}
	return New(f, prefix, log.DebugLevel), f, nil
}

// ParseLevel converts a level name such as "debug" or "warn" to a log.Level.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}
