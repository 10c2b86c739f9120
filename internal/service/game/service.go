// Package game orchestrates matching-game sessions. It turns source
// material into pair sets through the generation port, keeps live sessions
// in an in-memory registry with TTL eviction, and exposes the operations
// the HTTP layer maps onto endpoints. Generator calls always run outside
// session locks; a slow model never blocks another player's moves.
package game

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/domain/match"
	"github.com/kavramlab/kavram-api/internal/events"
	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/generation"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/service"
)

// StartOptions carries the caller's wishes for a new game.
type StartOptions struct {
	// Save stores the source material in the catalog for later replay.
	Save bool

	// Title names the catalog entry; a blank title falls back to material
	// metadata (video title, filename) and finally a timestamped default.
	Title string
}

// SourceInfo describes where a session's material came from.
type SourceInfo struct {
	Type  domain.SourceType `json:"type"`
	Title string            `json:"title"`
}

// Snapshot is everything the presentation layer needs to render a session.
type Snapshot struct {
	Session match.SessionState
	Source  SourceInfo
}

// SelectionOutcome is the result of a single selection: what the engine
// resolved and the board state after it.
type SelectionOutcome struct {
	Resolution match.Resolution
	State      *Snapshot
}

// Service owns the in-memory session registry and orchestrates extraction,
// generation, catalog writes and the matching engine.
type Service struct {
	cfg         config.GameConfig
	generator   generation.PairGenerator
	sources     service.SourceService
	transcripts extract.TranscriptFetcher
	pdfs        extract.PDFTextExtractor
	emitter     events.EventEmitter
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry

	prefetchCtx    context.Context
	cancelPrefetch context.CancelFunc
	prefetchWG     sync.WaitGroup

	now func() time.Time // Injectable for testing
}

// NewService creates the game service. All dependencies are required.
// Close must be called on shutdown to stop background prefetch work.
func NewService(
	cfg config.GameConfig,
	generator generation.PairGenerator,
	sources service.SourceService,
	transcripts extract.TranscriptFetcher,
	pdfs extract.PDFTextExtractor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (*Service, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if sources == nil {
		return nil, fmt.Errorf("source service cannot be nil")
	}
	if transcripts == nil {
		return nil, fmt.Errorf("transcript fetcher cannot be nil")
	}
	if pdfs == nil {
		return nil, fmt.Errorf("pdf extractor cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	prefetchCtx, cancel := context.WithCancel(context.Background())

	return &Service{
		cfg:            cfg,
		generator:      generator,
		sources:        sources,
		transcripts:    transcripts,
		pdfs:           pdfs,
		emitter:        emitter,
		logger:         log.With("component", "game_service"),
		sessions:       make(map[uuid.UUID]*sessionEntry),
		prefetchCtx:    prefetchCtx,
		cancelPrefetch: cancel,
		now:            time.Now,
	}, nil
}

// Close cancels in-flight prefetch work and waits for it to finish.
func (s *Service) Close() {
	s.cancelPrefetch()
	s.prefetchWG.Wait()
}

// StartFromText starts a game over pasted text material.
func (s *Service) StartFromText(
	ctx context.Context,
	text string,
	opts StartOptions,
) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptySource
	}

	pairs, err := s.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(opts.Title)
	var sourceID uuid.UUID
	if opts.Save {
		saved, saveErr := s.sources.SaveSource(ctx, opts.Title, text, domain.SourceTypeText)
		if saveErr != nil {
			log.Warn("failed to save source to catalog, starting game without it",
				"error", saveErr)
		} else {
			sourceID = saved.ID
			title = saved.Title
		}
	}

	return s.register(ctx, pairs, text, title, domain.SourceTypeText, sourceID)
}

// StartFromYouTube starts a game over a video's transcript. When saving,
// the catalog row stores the URL with type youtube; the game itself plays
// the transcript text.
func (s *Service) StartFromYouTube(
	ctx context.Context,
	url string,
	opts StartOptions,
) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	transcript, err := s.transcripts.FetchTranscript(ctx, url)
	if err != nil {
		return nil, err
	}

	pairs, err := s.generate(ctx, transcript.Text)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = transcript.Title
	}

	var sourceID uuid.UUID
	if opts.Save {
		saved, saveErr := s.sources.SaveSource(
			ctx, title, strings.TrimSpace(url), domain.SourceTypeYouTube,
		)
		if saveErr != nil {
			log.Warn("failed to save source to catalog, starting game without it",
				"error", saveErr)
		} else {
			sourceID = saved.ID
			title = saved.Title
		}
	}

	return s.register(ctx, pairs, transcript.Text, title, domain.SourceTypeYouTube, sourceID)
}

// StartFromPDF starts a game over the text of an uploaded document. When
// saving, the catalog stores the extracted text and, if an archiver is
// configured, the original bytes go to object storage.
func (s *Service) StartFromPDF(
	ctx context.Context,
	file io.Reader,
	size int64,
	filename string,
	opts StartOptions,
) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := readAllSized(file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded document: %w", err)
	}

	text, err := s.pdfs.ExtractText(ctx, raw)
	if err != nil {
		return nil, err
	}

	pairs, err := s.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = titleFromFilename(filename)
	}

	var sourceID uuid.UUID
	if opts.Save {
		saved, saveErr := s.sources.SavePDFSource(ctx, title, text, filename, raw)
		if saveErr != nil {
			log.Warn("failed to save source to catalog, starting game without it",
				"error", saveErr)
		} else {
			sourceID = saved.ID
			title = saved.Title
		}
	}

	return s.register(ctx, pairs, text, title, domain.SourceTypePDF, sourceID)
}

// StartFromSource replays a saved catalog source.
func (s *Service) StartFromSource(
	ctx context.Context,
	sourceID uuid.UUID,
) (*Snapshot, error) {
	source, err := s.sources.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	text, err := s.sources.ResolveContent(ctx, source)
	if err != nil {
		return nil, err
	}

	pairs, err := s.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.register(ctx, pairs, text, source.Title, source.Type, source.ID)
}

// State returns the current snapshot of a session.
func (s *Service) State(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	entry, err := s.touchEntry(sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshotEntry(entry)
}

// SelectConcept applies a concept selection to a session.
func (s *Service) SelectConcept(
	ctx context.Context,
	sessionID uuid.UUID,
	key string,
) (*SelectionOutcome, error) {
	return s.applySelection(ctx, sessionID, key, true)
}

// SelectMeaning applies a meaning selection to a session.
func (s *Service) SelectMeaning(
	ctx context.Context,
	sessionID uuid.UUID,
	key string,
) (*SelectionOutcome, error) {
	return s.applySelection(ctx, sessionID, key, false)
}

func (s *Service) applySelection(
	ctx context.Context,
	sessionID uuid.UUID,
	key string,
	concept bool,
) (*SelectionOutcome, error) {
	entry, err := s.touchEntry(sessionID)
	if err != nil {
		return nil, err
	}

	var res match.Resolution
	if concept {
		res, err = entry.session.SelectConcept(key)
	} else {
		res, err = entry.session.SelectMeaning(key)
	}
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshotEntry(entry)
	if err != nil {
		return nil, err
	}

	if res.RoundComplete {
		s.emitRoundCompleted(ctx, sessionID, snap.Session.RoundID)
	}

	return &SelectionOutcome{Resolution: res, State: snap}, nil
}

// NewRound replaces a session's finished round with a fresh pair set. The
// prefetched set is used when one is ready for the current round; otherwise
// generation happens synchronously. The score carries over, and a
// generation failure leaves the current round and score untouched.
func (s *Service) NewRound(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := s.touchEntry(sessionID)
	if err != nil {
		return nil, err
	}

	roundID, err := entry.session.CurrentRoundID()
	if err != nil {
		return nil, err
	}

	pairs := s.takePrefetched(sessionID, roundID)
	if pairs != nil {
		log.Debug("starting round from prefetched pair set",
			"session_id", sessionID,
			"completed_round_id", roundID)
	} else {
		pairs, err = s.generate(ctx, entry.sourceText)
		if err != nil {
			return nil, err
		}
	}

	if err := entry.session.StartNewRound(pairs); err != nil {
		return nil, err
	}

	s.clearPrefetched(sessionID)
	return s.snapshotEntry(entry)
}

// Reset restarts a session over the same pair set with the score zeroed.
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error) {
	entry, err := s.touchEntry(sessionID)
	if err != nil {
		return nil, err
	}

	if err := entry.session.Reset(); err != nil {
		return nil, err
	}

	s.clearPrefetched(sessionID)
	return s.snapshotEntry(entry)
}

// End removes a session from the registry.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("game session ended",
		"session_id", sessionID)
	return nil
}

// generate asks the generation port for a fresh pair set sized by config.
func (s *Service) generate(ctx context.Context, text string) ([]domain.Pair, error) {
	return s.generator.GeneratePairs(ctx, text, s.cfg.PairCount)
}

// register creates a session over the given pairs and adds it to the
// registry.
func (s *Service) register(
	ctx context.Context,
	pairs []domain.Pair,
	sourceText, title string,
	sourceType domain.SourceType,
	sourceID uuid.UUID,
) (*Snapshot, error) {
	sessionID := uuid.New()
	sess, err := match.NewSession(sessionID, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return nil, err
	}
	if err := sess.Start(pairs); err != nil {
		return nil, err
	}

	entry := &sessionEntry{
		session:     sess,
		lastActive:  s.now(),
		sourceText:  sourceText,
		sourceTitle: title,
		sourceType:  sourceType,
		sourceID:    sourceID,
	}

	s.mu.Lock()
	s.sessions[sessionID] = entry
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("game session started",
		"session_id", sessionID,
		"source_type", sourceType,
		"pairs", len(pairs))

	return s.snapshotEntry(entry)
}

// snapshotEntry renders an entry. The source fields are immutable after
// registration, so no registry lock is needed here.
func (s *Service) snapshotEntry(entry *sessionEntry) (*Snapshot, error) {
	state, err := entry.session.Snapshot()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Session: state,
		Source: SourceInfo{
			Type:  entry.sourceType,
			Title: entry.sourceTitle,
		},
	}, nil
}

// emitRoundCompleted publishes the round-completed event. Emission failure
// is logged and swallowed: the selection that completed the round already
// succeeded.
func (s *Service) emitRoundCompleted(ctx context.Context, sessionID, roundID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event := events.NewRoundCompletedEvent(sessionID, roundID)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit round completed event",
			"error", err,
			"session_id", sessionID,
			"round_id", roundID)
		return
	}

	log.Debug("round completed event emitted",
		"session_id", sessionID,
		"round_id", roundID)
}

// readAllSized reads the whole document, using the declared size as a
// capacity hint.
func readAllSized(r io.Reader, size int64) ([]byte, error) {
	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// titleFromFilename derives a presentable title from an upload's filename.
func titleFromFilename(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
