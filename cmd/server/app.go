package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/events"
	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/extract/pdftext"
	"github.com/kavramlab/kavram-api/internal/extract/youtube"
	"github.com/kavramlab/kavram-api/internal/generation"
	"github.com/kavramlab/kavram-api/internal/platform/blob"
	"github.com/kavramlab/kavram-api/internal/platform/gemini"
	"github.com/kavramlab/kavram-api/internal/platform/sqlstore"
	"github.com/kavramlab/kavram-api/internal/service"
	"github.com/kavramlab/kavram-api/internal/service/game"
	"github.com/kavramlab/kavram-api/internal/service/session"
	"github.com/kavramlab/kavram-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	sourceStore store.SourceStore

	// Service interfaces
	tokenService  session.TokenService
	generator     generation.PairGenerator
	transcripts   extract.TranscriptFetcher
	pdfs          extract.PDFTextExtractor
	archiver      service.Archiver
	sourceService service.SourceService
	gameService   *game.Service

	// Event system
	eventEmitter events.EventEmitter

	// Background work
	stopJanitor context.CancelFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize session token service
	var err error
	app.tokenService, err = session.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session token service: %w", err)
	}
	logger.Info("Session token service initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	// Initialize stores
	app.sourceStore = sqlstore.NewSourceStore(db, logger)

	// Initialize content extraction
	app.transcripts = youtube.NewFetcher(youtube.Config{
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.Extract.HTTPTimeoutSeconds) * time.Second,
		},
		Languages: cfg.Extract.PreferredLanguages,
	}, logger.With("component", "transcript_fetcher"))
	app.pdfs = pdftext.NewExtractor(logger.With("component", "pdf_extractor"))

	// Create the pair generator service
	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "pair_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pair generator: %w", err)
	}
	logger.Info("Pair generator initialized successfully", "model", cfg.LLM.ModelName)

	// Optional object storage archiver for uploaded documents. NewClient
	// returns nil when the blob section is unconfigured; the source service
	// treats a nil archiver as archiving disabled.
	blobClient, err := blob.NewClient(ctx, cfg.Blob, logger.With("component", "blob_archiver"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob archiver: %w", err)
	}
	if blobClient != nil {
		app.archiver = blobClient
		logger.Info("Blob archiver initialized", "bucket", cfg.Blob.Bucket)
	}

	// Initialize source catalog service
	app.sourceService, err = service.NewSourceService(
		app.sourceStore,
		app.transcripts,
		app.archiver,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source service: %w", err)
	}

	// Initialize event emitter
	app.eventEmitter = events.NewSyncEmitter(logger)

	// Initialize game service
	app.gameService, err = game.NewService(
		cfg.Game,
		app.generator,
		app.sourceService,
		app.transcripts,
		app.pdfs,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	// The game service subscribes to its own round-completion events to
	// prefetch the next round's pairs.
	if cfg.Game.PrefetchNextRound {
		emitter, ok := app.eventEmitter.(*events.SyncEmitter)
		if !ok {
			return nil, fmt.Errorf("unexpected event emitter type, cannot register prefetch handler")
		}
		emitter.RegisterHandler(app.gameService)
		logger.Info("Round prefetch enabled")
	}

	// Start the session registry janitor
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	app.stopJanitor = stopJanitor
	go app.gameService.RunJanitor(janitorCtx)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the session janitor and in-flight prefetch work
	if app.stopJanitor != nil {
		app.stopJanitor()
	}
	if app.gameService != nil {
		app.gameService.Close()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
