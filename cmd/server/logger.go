package main

import (
	"fmt"
	"log/slog"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
)

// setupAppLogger builds the process logger from server config. Setup also
// installs it as the slog default, so everything logged after this point
// comes out as JSON.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return log, nil
}
