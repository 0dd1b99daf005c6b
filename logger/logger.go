// ABOUTME: This file provides the slog-based JSON logger for keyword-aggregator
// ABOUTME: Emits lowercase levels and msg/time keys for log-forwarder compatibility
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "keyword-aggregator"

// Logger is the package-level logger. main.go configures it via Init;
// the init below installs a stderr fallback so tests never hit a nil logger.
var Logger *slog.Logger

func init() {
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
}

// Init configures the global logger from LOG_LEVEL and returns it.
func Init() *slog.Logger {
	Logger = New(os.Stdout, os.Getenv("LOG_LEVEL"))
	return Logger
}

// New builds a JSON slog.Logger writing to output at the given level.
func New(output io.Writer, level string) *slog.Logger {
	options := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Lowercase the level so the log forwarder can route on it.
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(lvl.String()))}
				}
			}
			return a
		},
	}

	handler := slog.NewJSONHandler(output, options)

	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
