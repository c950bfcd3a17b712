// Package logging provides structured logging using Go's log/slog.
//
// Configuration is controlled via environment variables:
//   - CDOC_LOG_LEVEL: debug, info, warn, error (default: info)
//   - CDOC_LOG_FORMAT: text, json (default: text)
//
// All logging goes to stderr to keep stdout clean for report output. The
// analyzer core never logs; only the CLI and infrastructure layers do.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logging configuration.
type Config struct {
	Level  slog.Level
	Format string    // "text" or "json"
	Output io.Writer // defaults to os.Stderr
	Source string    // component name for context
}

// DefaultConfig returns sensible defaults for the given source component.
func DefaultConfig(source string) Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Output: os.Stderr,
		Source: source,
	}
}

// FromEnv reads logging config from CDOC_LOG_LEVEL and CDOC_LOG_FORMAT,
// returning defaults with any overrides applied.
func FromEnv(source string) Config {
	cfg := DefaultConfig(source)

	switch strings.ToLower(os.Getenv("CDOC_LOG_LEVEL")) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "info":
		cfg.Level = slog.LevelInfo
	case "warn", "warning":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}

	if format := os.Getenv("CDOC_LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}

	return cfg
}

// New creates a configured slog.Logger.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	if cfg.Source != "" {
		logger = logger.With("source", cfg.Source)
	}
	return logger
}
