package main

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestMigrateUp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	db, err := setupAppDatabase(cfg, logger)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, migrateUp(db, cfg.Database.Driver, logger))

	assert.True(t, tableExists(t, db, "sources"))
	assert.True(t, tableExists(t, db, "goose_db_version"))

	// Running again against an up-to-date schema is a no-op.
	require.NoError(t, migrateUp(db, cfg.Database.Driver, logger))
}

func TestRunMigrationCommand(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	db, err := setupAppDatabase(cfg, logger)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, runMigrationCommand(db, cfg.Database.Driver, "up", logger))
	require.NoError(t, runMigrationCommand(db, cfg.Database.Driver, "status", logger))
	require.NoError(t, runMigrationCommand(db, cfg.Database.Driver, "version", logger))

	require.NoError(t, runMigrationCommand(db, cfg.Database.Driver, "down", logger))
	assert.False(t, tableExists(t, db, "sources"))

	err = runMigrationCommand(db, cfg.Database.Driver, "drop-everything", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestPrepareGooseUnknownDriver(t *testing.T) {
	_, err := prepareGoose("mssql")
	require.Error(t, err)
}
