package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production deployments log JSON;
// everything else gets the text handler with debug enabled.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg != nil && cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{AddSource: true, Level: level}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
