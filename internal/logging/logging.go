// Package logging provides the configured zerolog logger. The TUI owns
// stdout, so logs go to a file; a nop logger keeps call sites simple
// when no log path is configured.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New opens a file-backed logger. The returned closer flushes and
// releases the log file and must run at shutdown.
func New(path, level string) (zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(file).Level(lvl).With().
		Str("service", "campusreel").
		Timestamp().
		Logger()
	return logger, file.Close, nil
}

// Nop returns a disabled logger for tests and for runs without a
// configured log path.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
