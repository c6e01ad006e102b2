// Package logging configures the process-wide slog logger: human-readable
// output on the console plus two append-only JSON files, one with everything
// and one with errors only.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Log file names created inside the log directory.
const (
	GeneralLogFile = "deployfix.log"
	ErrorLogFile   = "deployfix-error.log"
)

// Setup opens (or creates) both log files in dir and returns a logger that
// writes to console and the files. The returned close function flushes and
// closes the files.
func Setup(dir string, level slog.Level, console io.Writer) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}

	general, err := openAppend(filepath.Join(dir, GeneralLogFile))
	if err != nil {
		return nil, nil, err
	}
	errorsFile, err := openAppend(filepath.Join(dir, ErrorLogFile))
	if err != nil {
		_ = general.Close()
		return nil, nil, err
	}

	handler := NewHandler(level, console, general, errorsFile)

	closeFn := func() error {
		return errors.Join(general.Close(), errorsFile.Close())
	}
	return slog.New(handler), closeFn, nil
}

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

// NewHandler fans records out to a text handler on console, a JSON handler on
// general, and a JSON handler on errs that only accepts slog.LevelError.
func NewHandler(level slog.Level, console, general, errs io.Writer) slog.Handler {
	return slogmulti.Fanout(
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(general, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
}
