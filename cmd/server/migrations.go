package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/kavramlab/kavram-api/internal/platform/sqlstore"
)

// prepareGoose points goose at the embedded migrations for the configured
// driver and returns the migrations directory to run against.
func prepareGoose(driver string) (string, error) {
	dialect, err := sqlstore.GooseDialect(driver)
	if err != nil {
		return "", err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(sqlstore.MigrationsFS())

	return sqlstore.MigrationsDir(driver)
}

// migrateUp applies any pending migrations at startup. The schema always
// matches the running binary; there is no separate migrations artifact to
// deploy.
func migrateUp(db *sql.DB, driver string, logger *slog.Logger) error {
	dir, err := prepareGoose(driver)
	if err != nil {
		return err
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("Database migrations applied", "version", version)
	return nil
}

// runMigrationCommand executes a single migration command for the -migrate
// flag and returns.
func runMigrationCommand(db *sql.DB, driver, command string, logger *slog.Logger) error {
	dir, err := prepareGoose(driver)
	if err != nil {
		return err
	}

	logger.Info("Running migration command", "command", command)

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return err
		}
		logger.Info("Current migration version", "version", version)
		return nil
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, status or version)", command)
	}
}
