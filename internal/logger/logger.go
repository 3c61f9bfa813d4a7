// Package logger holds the package-level slog logger used by the pools.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// envDebug enables debug logging to stderr when set to a non-empty value.
const envDebug = "HIVE_LOG_POOL"

// L is the global logger instance. It discards all output unless Init is
// called or HIVE_LOG_POOL is set.
var L = defaultLogger()

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Output  io.Writer  // Destination. Default: os.Stderr
	Level   slog.Level // Minimum log level
	JSON    bool       // Use the JSON handler instead of text
}

func defaultLogger() *slog.Logger {
	if os.Getenv(envDebug) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return Discard()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Init replaces L according to opts and returns it.
func Init(opts Options) *slog.Logger {
	if !opts.Enabled {
		L = Discard()
		return L
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(out, ho))
	} else {
		L = slog.New(slog.NewTextHandler(out, ho))
	}
	return L
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown or empty names yield LevelInfo.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Or returns l, or L when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return L
}
