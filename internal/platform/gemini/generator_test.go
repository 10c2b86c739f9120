package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/generation"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const threePairsJSON = `[
	{"concept": "Hücre", "meaning": "Canlıların en küçük yapı birimi"},
	{"concept": "Mitokondri", "meaning": "Hücrenin enerji santrali"},
	{"concept": "Ribozom", "meaning": "Protein sentezinin yapıldığı yer"}
]`

// fakeCall scripts a single response of a fakeModel.
type fakeCall struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeModel implements pairModel with a scripted call sequence.
type fakeModel struct {
	script  []fakeCall
	calls   int
	prompts []string
}

func (m *fakeModel) generateContent(_ context.Context, _ string, prompt string) (*genai.GenerateContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	if m.calls >= len(m.script) {
		m.calls++
		return nil, errors.New("fake model script exhausted")
	}

	call := m.script[m.calls]
	m.calls++
	return call.resp, call.err
}

// textResponse builds a model response carrying the given text in a single
// part of the first candidate.
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
}

// newTestGenerator builds a Generator wired to the given fake models, with
// instant retry delays.
func newTestGenerator(t *testing.T, models ...pairModel) *Generator {
	t.Helper()

	log, _ := logger.NewTestLogger(t)

	tmpl, err := template.New("pairs").Parse(defaultPromptTemplate)
	require.NoError(t, err, "embedded prompt template should parse")

	return &Generator{
		logger: log,
		cfg: config.LLMConfig{
			APIKeys:           []string{"test-key"},
			ModelName:         "gemini-2.5-flash",
			MaxRetries:        2,
			RetryDelaySeconds: 1,
			MaxSourceChars:    40000,
		},
		promptTemplate: tmpl,
		models:         models,
		model:          "gemini-2.5-flash",
		sleep:          func(context.Context, time.Duration) error { return nil },
	}
}

func TestNewGeneratorValidation(t *testing.T) {
	ctx := context.Background()
	log, _ := logger.NewTestLogger(t)

	validCfg := config.LLMConfig{
		APIKeys:           []string{"key-one", "key-two"},
		ModelName:         "gemini-2.5-flash",
		MaxRetries:        3,
		RetryDelaySeconds: 2,
		MaxSourceChars:    40000,
	}

	t.Run("nil logger", func(t *testing.T) {
		g, err := NewGenerator(ctx, nil, validCfg)
		assert.Error(t, err)
		assert.Nil(t, g)
	})

	t.Run("no API keys", func(t *testing.T) {
		cfg := validCfg
		cfg.APIKeys = nil

		g, err := NewGenerator(ctx, log, cfg)
		assert.ErrorIs(t, err, generation.ErrNoCredentials)
		assert.Nil(t, g)
	})

	t.Run("missing model name", func(t *testing.T) {
		cfg := validCfg
		cfg.ModelName = ""

		g, err := NewGenerator(ctx, log, cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Nil(t, g)
	})

	t.Run("unreadable template override", func(t *testing.T) {
		cfg := validCfg
		cfg.PromptTemplatePath = "/nonexistent/prompt.tmpl"

		g, err := NewGenerator(ctx, log, cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Nil(t, g)
	})

	t.Run("one model binding per key", func(t *testing.T) {
		g, err := NewGenerator(ctx, log, validCfg)
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Len(t, g.models, 2, "each configured key should get its own client")
	})
}

func TestGeneratePairsSuccess(t *testing.T) {
	m := &fakeModel{script: []fakeCall{{resp: textResponse(threePairsJSON)}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "Hücre ve organelleri anlatan ders notu", 3)

	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, "Hücre", pairs[0].Concept)
	assert.Equal(t, "Canlıların en küçük yapı birimi", pairs[0].Meaning)
	assert.Equal(t, "Ribozom", pairs[2].Concept)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "exactly 3 concept/meaning pairs")
	assert.Contains(t, m.prompts[0], "ders notu", "prompt should carry the source material")
}

func TestGeneratePairsEmptySource(t *testing.T) {
	m := &fakeModel{}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "   \n\t", 5)

	assert.ErrorIs(t, err, ErrEmptySourceText)
	assert.Nil(t, pairs)
	assert.Zero(t, m.calls, "no model call should happen for empty source text")
}

func TestGeneratePairsStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n" + threePairsJSON + "\n```"
	m := &fakeModel{script: []fakeCall{{resp: textResponse(fenced)}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	require.NoError(t, err)
	assert.Len(t, pairs, 3)
}

func TestGeneratePairsAcceptsObjectWrapper(t *testing.T) {
	wrapped := `{"pairs": ` + threePairsJSON + `}`
	m := &fakeModel{script: []fakeCall{{resp: textResponse(wrapped)}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	require.NoError(t, err)
	assert.Len(t, pairs, 3)
}

func TestGeneratePairsConcatenatesResponseParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: `[{"concept": "Osmoz", "meaning": "Suyun yarı geçirgen`},
						{Text: ` zardan geçişi"}]`},
					},
				},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
	m := &fakeModel{script: []fakeCall{{resp: resp}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 1)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Suyun yarı geçirgen zardan geçişi", pairs[0].Meaning)
}

func TestGeneratePairsTruncatesSource(t *testing.T) {
	m := &fakeModel{script: []fakeCall{{resp: textResponse(threePairsJSON)}}}
	g := newTestGenerator(t, m)
	g.cfg.MaxSourceChars = 20

	source := strings.Repeat("a", 40) + "TAIL"
	_, err := g.GeneratePairs(context.Background(), source, 3)

	require.NoError(t, err)
	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], strings.Repeat("a", 20))
	assert.NotContains(t, m.prompts[0], strings.Repeat("a", 21), "source should be cut at the configured limit")
	assert.NotContains(t, m.prompts[0], "TAIL")
}

func TestGeneratePairsTrimsSurplusPairs(t *testing.T) {
	m := &fakeModel{script: []fakeCall{{resp: textResponse(threePairsJSON)}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 2)

	require.NoError(t, err)
	require.Len(t, pairs, 2, "surplus pairs should be trimmed to the requested count")
	assert.Equal(t, "Hücre", pairs[0].Concept)
	assert.Equal(t, "Mitokondri", pairs[1].Concept)
}

func TestGeneratePairsRejectsDuplicates(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{
			name: "duplicate concept",
			json: `[{"concept": "Hücre", "meaning": "Yapı birimi"}, {"concept": "Hücre", "meaning": "Baska bir anlam"}]`,
		},
		{
			name: "duplicate meaning",
			json: `[{"concept": "Hücre", "meaning": "Yapı birimi"}, {"concept": "Doku", "meaning": "Yapı birimi"}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &fakeModel{script: []fakeCall{
				{resp: textResponse(tc.json)},
				{resp: textResponse(tc.json)},
				{resp: textResponse(tc.json)},
			}}
			g := newTestGenerator(t, m)

			pairs, err := g.GeneratePairs(context.Background(), "ders notu", 2)

			assert.ErrorIs(t, err, generation.ErrDuplicatePairs)
			assert.Nil(t, pairs)
		})
	}
}

func TestGeneratePairsRejectsIncompletePair(t *testing.T) {
	incomplete := `[{"concept": "Hücre", "meaning": ""}]`
	m := &fakeModel{script: []fakeCall{
		{resp: textResponse(incomplete)},
		{resp: textResponse(incomplete)},
		{resp: textResponse(incomplete)},
	}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 1)

	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	assert.Nil(t, pairs)
}

func TestGeneratePairsRerollsMalformedResponse(t *testing.T) {
	m := &fakeModel{script: []fakeCall{
		{resp: textResponse("this is not JSON")},
		{resp: textResponse(threePairsJSON)},
	}}
	g := newTestGenerator(t, m)

	var sleeps int
	g.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	require.NoError(t, err)
	assert.Len(t, pairs, 3)
	assert.Equal(t, 2, m.calls, "malformed response should be re-rolled once")
	assert.Equal(t, 1, sleeps, "one backoff delay between the two attempts")
}

func TestGeneratePairsFallsBackToNextCredential(t *testing.T) {
	failing := &fakeModel{script: []fakeCall{{err: errors.New("429 resource exhausted")}}}
	working := &fakeModel{script: []fakeCall{{resp: textResponse(threePairsJSON)}}}
	g := newTestGenerator(t, failing, working)

	var sleeps int
	g.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	require.NoError(t, err)
	assert.Len(t, pairs, 3)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
	assert.Zero(t, sleeps, "credential fallback should not wait for a backoff delay")
}

func TestGeneratePairsExhaustsRetries(t *testing.T) {
	callErr := errors.New("503 service unavailable")
	m := &fakeModel{script: []fakeCall{{err: callErr}, {err: callErr}, {err: callErr}}}
	g := newTestGenerator(t, m)

	var sleeps int
	g.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Nil(t, pairs)
	assert.Equal(t, 3, m.calls, "MaxRetries=2 means three attempts in total")
	assert.Equal(t, 2, sleeps)
}

func TestGeneratePairsSafetyBlockIsPermanent(t *testing.T) {
	blocked := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: ""}}},
				FinishReason: genai.FinishReasonSafety,
			},
		},
	}
	m := &fakeModel{script: []fakeCall{{resp: blocked}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Nil(t, pairs)
	assert.Equal(t, 1, m.calls, "safety blocks should not be retried")
}

func TestGeneratePairsNoCandidates(t *testing.T) {
	empty := &genai.GenerateContentResponse{}
	m := &fakeModel{script: []fakeCall{{resp: empty}, {resp: empty}, {resp: empty}}}
	g := newTestGenerator(t, m)

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	assert.Nil(t, pairs)
	assert.Equal(t, 3, m.calls, "an empty response is re-rolled like any invalid one")
}

func TestGeneratePairsCancelledDuringBackoff(t *testing.T) {
	m := &fakeModel{script: []fakeCall{{err: errors.New("network down")}}}
	g := newTestGenerator(t, m)
	g.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	pairs, err := g.GeneratePairs(context.Background(), "ders notu", 3)

	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Nil(t, pairs)
	assert.Equal(t, 1, m.calls, "cancellation during backoff should stop further attempts")
}

func TestStripCodeFences(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare JSON untouched",
			input: `[{"concept": "a", "meaning": "b"}]`,
			want:  `[{"concept": "a", "meaning": "b"}]`,
		},
		{
			name:  "json fence",
			input: "```json\n[1, 2]\n```",
			want:  "[1, 2]",
		},
		{
			name:  "anonymous fence",
			input: "```\n[1, 2]\n```",
			want:  "[1, 2]",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n[1]\n```\n ",
			want:  "[1]",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.input))
		})
	}
}

func TestTruncateToChars(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{
			name:  "below limit unchanged",
			input: "short",
			limit: 100,
			want:  "short",
		},
		{
			name:  "exact limit unchanged",
			input: "12345",
			limit: 5,
			want:  "12345",
		},
		{
			name:  "cut at limit",
			input: "1234567890",
			limit: 4,
			want:  "1234",
		},
		{
			name:  "never splits a multibyte rune",
			input: "héllo",
			limit: 2,
			want:  "h",
		},
		{
			name:  "zero limit means no cap",
			input: "anything goes",
			limit: 0,
			want:  "anything goes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncateToChars(tc.input, tc.limit))
		})
	}
}
