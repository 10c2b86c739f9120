package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication(t *testing.T) {
	t.Run("wires all dependencies", func(t *testing.T) {
		cfg := testConfig(t)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := setupAppDatabase(cfg, logger)
		require.NoError(t, err)
		require.NoError(t, migrateUp(db, cfg.Database.Driver, logger))

		app, err := newApplication(context.Background(), cfg, logger, db)
		require.NoError(t, err)

		assert.NotNil(t, app.tokenService)
		assert.NotNil(t, app.sourceStore)
		assert.NotNil(t, app.generator)
		assert.NotNil(t, app.transcripts)
		assert.NotNil(t, app.pdfs)
		assert.Nil(t, app.archiver, "blob storage is unconfigured")
		assert.NotNil(t, app.sourceService)
		assert.NotNil(t, app.gameService)
		assert.NotNil(t, app.eventEmitter)

		app.cleanup()
	})

	t.Run("registers the prefetch handler when enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Game.PrefetchNextRound = true
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := setupAppDatabase(cfg, logger)
		require.NoError(t, err)
		require.NoError(t, migrateUp(db, cfg.Database.Driver, logger))

		app, err := newApplication(context.Background(), cfg, logger, db)
		require.NoError(t, err)

		app.cleanup()
	})

	t.Run("rejects a session secret that is too short", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Auth.SessionSecret = "short"
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := setupAppDatabase(cfg, logger)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		_, err = newApplication(context.Background(), cfg, logger, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session token service")
	})
}
