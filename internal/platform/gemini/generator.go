package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/generation"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/redact"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// defaultPairCount is used when a caller requests a nonsensical pair count.
const defaultPairCount = 5

// pairModel abstracts a single-credential model call so the retry and
// parsing logic can be exercised without network access.
type pairModel interface {
	generateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
}

// genaiModel is the production pairModel, backed by one API credential.
type genaiModel struct {
	client *genai.Client
}

func (m genaiModel) generateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	return m.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(0.2)),
	})
}

// Generator implements the generation.PairGenerator interface using
// Google's Gemini API to derive concept/meaning pairs from source text.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// cfg contains LLM-specific configuration
	cfg config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// models holds one model binding per configured API key, in
	// fallback order
	models []pairModel

	// model is the name of the Gemini model to use
	model string

	// sleep waits between retry rounds; nil means real waiting.
	// Tests replace it to avoid slow backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Ensure Generator implements generation.PairGenerator interface
var _ generation.PairGenerator = (*Generator)(nil)

// NewGenerator creates a new Generator with the provided dependencies.
//
// One API client is constructed per configured key; the keys form an
// ordered fallback chain. The prompt template is the embedded default
// unless cfg.PromptTemplatePath points at an override file.
//
// Returns an error wrapping generation.ErrNoCredentials when no API key is
// configured, and generation.ErrInvalidConfig for every other
// configuration problem.
func NewGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("%w: llm.api_keys is empty", generation.ErrNoCredentials)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent := defaultPromptTemplate
	if cfg.PromptTemplatePath != "" {
		raw, err := os.ReadFile(cfg.PromptTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
		}
		templateContent = string(raw)
	}

	promptTemplate, err := template.New("pairs").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	models := make([]pairModel, 0, len(cfg.APIKeys))
	for i, key := range cfg.APIKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create client for key %d: %s",
				generation.ErrInvalidConfig, i, redact.Error(err))
		}
		models = append(models, genaiModel{client: client})
	}

	return &Generator{
		logger:         log.With(slog.String("component", "gemini_generator")),
		cfg:            cfg,
		promptTemplate: promptTemplate,
		models:         models,
		model:          cfg.ModelName,
	}, nil
}

// GeneratePairs implements generation.PairGenerator.GeneratePairs.
func (g *Generator) GeneratePairs(ctx context.Context, sourceText string, count int) ([]domain.Pair, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if strings.TrimSpace(sourceText) == "" {
		return nil, ErrEmptySourceText
	}

	if count < 1 {
		log.Warn("invalid pair count requested, using default",
			slog.Int("count", count),
			slog.Int("default", defaultPairCount))
		count = defaultPairCount
	}

	prompt, err := g.buildPrompt(ctx, sourceText, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	pairs, err := g.callWithRetry(ctx, log, prompt)
	if err != nil {
		return nil, err
	}

	if len(pairs) > count {
		log.Debug("model returned surplus pairs, trimming",
			slog.Int("returned", len(pairs)),
			slog.Int("requested", count))
		pairs = pairs[:count]
	}

	log.Info("pairs generated",
		slog.Int("pair_count", len(pairs)),
		slog.Int("source_chars", len(sourceText)))

	return pairs, nil
}

// buildPrompt renders the prompt template with the source text, truncating
// the text to the configured character limit first.
func (g *Generator) buildPrompt(ctx context.Context, sourceText string, count int) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	truncated := truncateToChars(sourceText, g.cfg.MaxSourceChars)
	if len(truncated) < len(sourceText) {
		log.Debug("source text truncated for prompt",
			slog.Int("original_chars", len(sourceText)),
			slog.Int("prompt_chars", len(truncated)))
	}

	var promptBuffer bytes.Buffer
	err := g.promptTemplate.Execute(&promptBuffer, promptData{
		Count:      count,
		SourceText: truncated,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callWithRetry sends the prompt to the model with retry and credential
// fallback.
//
// Each attempt walks the credential chain in order; any call error moves on
// to the next credential. A response that fails parsing or validation is
// re-rolled on the next attempt with the same chain, since the credential
// itself worked. Safety blocks are returned immediately. Between attempts
// the generator backs off exponentially with jitter, respecting context
// cancellation.
func (g *Generator) callWithRetry(ctx context.Context, log *slog.Logger, prompt string) ([]domain.Pair, error) {
	maxRetries := g.cfg.MaxRetries
	if maxRetries < 0 {
		log.Warn("invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}

	baseDelaySeconds := g.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		log.Warn("invalid retry delay value, using default", slog.Int("base_delay_seconds", 2))
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// delay = baseDelay * (2^(attempt-1)) * (0.5 + rand(0, 0.5))
			backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt-1))
			jitterFactor := 0.5 + rng.Float64()*0.5
			delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

			log.Info("retrying generation after delay",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", maxRetries+1),
				slog.Duration("delay", delay))

			if err := g.wait(ctx, delay); err != nil {
				log.Warn("generation cancelled during retry delay",
					slog.Int("attempt", attempt+1),
					slog.String("error", err.Error()))
				return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
			}
		}

		for keyIndex := range g.models {
			log.Debug("calling generation model",
				slog.Int("attempt", attempt+1),
				slog.Int("key_index", keyIndex))

			resp, err := g.models[keyIndex].generateContent(ctx, g.model, prompt)
			if err != nil {
				// Rejected credentials, rate limits and server errors all
				// land here; the next credential gets its chance right away.
				lastErr = fmt.Errorf("%w: model call failed: %s",
					generation.ErrTransientFailure, redact.Error(err))
				log.Warn("model call failed, advancing to next credential",
					slog.Int("attempt", attempt+1),
					slog.Int("key_index", keyIndex),
					slog.String("error", redact.Error(err)))
				continue
			}

			pairs, err := pairsFromResponse(resp)
			if err != nil {
				if errors.Is(err, generation.ErrContentBlocked) {
					log.Warn("content blocked, not retrying",
						slog.String("error", err.Error()))
					return nil, err
				}

				// The credential worked; malformed output is worth a
				// re-roll on the next attempt, not a credential change.
				lastErr = err
				log.Warn("model response rejected",
					slog.Int("attempt", attempt+1),
					slog.String("error", err.Error()))
				break
			}

			return pairs, nil
		}
	}

	log.Warn("maximum retry attempts reached", slog.Int("max_retries", maxRetries))

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no usable response", generation.ErrTransientFailure)
	}
	return nil, lastErr
}

// wait blocks for the given delay or until the context is cancelled.
func (g *Generator) wait(ctx context.Context, d time.Duration) error {
	if g.sleep != nil {
		return g.sleep(ctx, d)
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pairsFromResponse extracts and validates the pair set carried by a model
// response.
func pairsFromResponse(resp *genai.GenerateContentResponse) ([]domain.Pair, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response stopped by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	return parsePairs(text.String())
}

// parsePairs turns the raw response text into a validated pair set.
// Parsing is all-or-nothing: one bad element rejects the whole response.
func parsePairs(raw string) ([]domain.Pair, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var items []pairSchema
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// Some models wrap the array in an object despite instructions.
		var wrapped struct {
			Pairs []pairSchema `json:"pairs"`
		}
		if err2 := json.Unmarshal([]byte(cleaned), &wrapped); err2 != nil || len(wrapped.Pairs) == 0 {
			return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
				generation.ErrInvalidResponse, err)
		}
		items = wrapped.Pairs
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no pairs in response", generation.ErrInvalidResponse)
	}

	pairs := make([]domain.Pair, 0, len(items))
	for i, item := range items {
		pair, err := domain.NewPair(item.Concept, item.Meaning)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d: %v", generation.ErrInvalidResponse, i, err)
		}
		pairs = append(pairs, pair)
	}

	if err := domain.ValidatePairSet(pairs); err != nil {
		if errors.Is(err, domain.ErrDuplicatePair) {
			return nil, fmt.Errorf("%w: %v", generation.ErrDuplicatePairs, err)
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return pairs, nil
}

// stripCodeFences removes a surrounding Markdown code fence, which models
// sometimes add around JSON output despite instructions not to.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// truncateToChars caps text at limit bytes without splitting a UTF-8
// sequence. A limit of zero or less means no cap.
func truncateToChars(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}
