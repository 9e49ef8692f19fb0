package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the service logger: JSON lines on stdout, tagged with service.
// Unknown level strings fall back to info. Debug logging also records the
// source location.
func New(level, service string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, service)
}

// NewWithWriter is New writing to w.
func NewWithWriter(w io.Writer, level, service string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelDebug}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger
}

// Discard drops everything. Tests use it where log output is irrelevant.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}
