// Package logging configures the structured logger for envsync. Every
// handler it builds is wrapped in the redaction layer, so log output is
// covered even when a caller bypasses the installed process guard.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andywolf/envsync/internal/redact"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText is the human-readable default for terminal use.
	FormatText Format = "text"
	// FormatJSON produces machine-parseable output.
	FormatJSON Format = "json"
)

// Config holds logger settings.
type Config struct {
	// Level is the minimum level (debug, info, warn, error). Default: info.
	Level string
	// Format is text or json. Default: text.
	Format Format
	// Output receives log records. Default: os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: FormatText,
		Output: os.Stderr,
	}
}

// New builds a structured logger. The returned logger redacts every
// message and attribute before encoding.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(redact.NewHandler(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
