// Package logger builds the slog logger used by the command-line tool.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Setup configures the global logger. format is "text" or "json"; level is
// one of debug, info, warn or error. Output goes to w, which for the CLI is
// stderr so that stdout carries only results.
func Setup(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("logger: invalid level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		// JSON for machine parsing
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("logger: invalid format %q", format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}
