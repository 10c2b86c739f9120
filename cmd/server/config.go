package main

import (
	"fmt"
	"log/slog"

	"github.com/kavramlab/kavram-api/internal/config"
)

// loadAppConfig reads configuration from config.yaml and KAVRAM_ environment
// variables, then logs a summary of the settings that shape startup.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// This runs before Setup installs the JSON logger, so it goes through
	// whatever slog default is active.
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	slog.Debug("generation settings",
		"model", cfg.LLM.ModelName,
		"api_keys_configured", len(cfg.LLM.APIKeys))
	if cfg.Blob.Enabled() {
		slog.Debug("archive settings", "bucket", cfg.Blob.Bucket)
	}

	return cfg, nil
}
