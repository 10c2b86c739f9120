package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/kavramlab/kavram-api/internal/config"
)

// Setup builds the application's JSON logger at the configured level, makes
// it the process default, and returns it. An unrecognized level falls back
// to info with a warning on stderr rather than failing startup.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level, ok := parseLevel(cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn(
			"invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Make slog package-level calls (slog.Info etc.) use the same handler.
	slog.SetDefault(logger)

	return logger, nil
}

// parseLevel maps a configured level name onto a slog.Level. Matching is
// case-insensitive; the second return reports whether the name was known.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
