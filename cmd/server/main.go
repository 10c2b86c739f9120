// Package main implements the entry point for the kavram API server,
// which turns study material into concept-matching games backed by
// LLM pair generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// main is the entry point for the kavram-api server. It loads configuration,
// sets up logging, establishes the database connection, applies migrations,
// wires the application dependencies, and starts the HTTP server.
func main() {
	migrateCmd := flag.String(
		"migrate", "", "run a migration command (up, down, status, version) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func run(migrateCmd string) error {
	// A local .env file is a development convenience; deployments configure
	// through the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		err := runMigrationCommand(db, cfg.Database.Driver, migrateCmd, appLogger)
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("Error closing database connection", "error", closeErr)
		}
		return err
	}

	if err := migrateUp(db, cfg.Database.Driver, appLogger); err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
