package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

const (
	cuesTR = `<transcript><text start="0.0" dur="2.0">Hücre canlılığın temel birimidir</text><text start="2.0" dur="2.5">tüm canlılar hücrelerden oluşur</text></transcript>`
	cuesEN = `<transcript><text start="0.0" dur="2.0">The cell is the basic unit of life</text><text start="2.0" dur="2.5">it doesn&#39;t exist in isolation</text></transcript>`
)

// captionsPage renders a minimal video page embedding a captions JSON blob
// in the same shape YouTube serves.
func captionsPage(t *testing.T, serverURL, title string, langs []string) string {
	t.Helper()

	tracks := make([]map[string]string, 0, len(langs))
	for _, lang := range langs {
		tracks = append(tracks, map[string]string{
			"baseUrl":      serverURL + "/api/timedtext?lang=" + lang,
			"languageCode": lang,
		})
	}

	payload := map[string]any{
		"playerCaptionsTracklistRenderer": map[string]any{"captionTracks": tracks},
	}
	captionsJSON, err := json.Marshal(payload)
	require.NoError(t, err)

	return fmt.Sprintf(
		`<html><head><title>%s - YouTube</title></head><body><script>var ytInitialPlayerResponse = {"captions":%s,"videoDetails":{"videoId":"test"}};</script></body></html>`,
		title, captionsJSON,
	)
}

// newCaptionServer serves a video page advertising the given caption
// languages and the matching timedtext documents.
func newCaptionServer(t *testing.T, langs []string, cuesByLang map[string]string) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, captionsPage(t, server.URL, "Cell Biology &amp; Life", langs))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, cuesByLang[r.URL.Query().Get("lang")])
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher(serverURL string, languages []string) *Fetcher {
	return NewFetcher(Config{
		BaseURL:   serverURL,
		Languages: languages,
	}, nil)
}

func TestParseVideoID(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "watch URL",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short URL",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed URL",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch URL with extra parameters",
			input: "https://www.youtube.com/watch?t=30&v=dQw4w9WgXcQ&feature=share",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare video ID",
			input: "dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "surrounding whitespace",
			input: "  dQw4w9WgXcQ\n",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:    "unrelated URL",
			input:   "https://example.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "free text",
			input:   "the mitochondria is the powerhouse of the cell",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVideoID(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, extract.ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFetchTranscriptPrefersConfiguredLanguage(t *testing.T) {
	server := newCaptionServer(t, []string{"en", "tr"}, map[string]string{
		"en": cuesEN,
		"tr": cuesTR,
	})

	f := newTestFetcher(server.URL, []string{"tr", "en"})

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	assert.Equal(t, "Cell Biology & Life", got.Title)
	assert.Equal(t, "Hücre canlılığın temel birimidir tüm canlılar hücrelerden oluşur", got.Text)
}

func TestFetchTranscriptFallsBackThroughPreferenceList(t *testing.T) {
	server := newCaptionServer(t, []string{"en"}, map[string]string{
		"en": cuesEN,
	})

	f := newTestFetcher(server.URL, []string{"tr", "en"})

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, "The cell is the basic unit of life it doesn't exist in isolation", got.Text)
}

func TestFetchTranscriptMatchesRegionalVariant(t *testing.T) {
	server := newCaptionServer(t, []string{"en-US"}, map[string]string{
		"en-US": cuesEN,
	})

	f := newTestFetcher(server.URL, []string{"en"})

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Contains(t, got.Text, "basic unit of life")
}

func TestFetchTranscriptUsesFirstTrackWhenNothingMatches(t *testing.T) {
	server := newCaptionServer(t, []string{"de"}, map[string]string{
		"de": `<transcript><text start="0.0" dur="1.0">Die Zelle</text></transcript>`,
	})

	f := newTestFetcher(server.URL, []string{"tr", "en"})

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, "Die Zelle", got.Text)
}

func TestFetchTranscriptNoCaptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Silent Video - YouTube</title></head><body>no captions here</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f := newTestFetcher(server.URL, []string{"tr", "en"})

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, extract.ErrTranscriptUnavailable)
}

func TestFetchTranscriptEmptyTrack(t *testing.T) {
	server := newCaptionServer(t, []string{"en"}, map[string]string{
		"en": `<transcript></transcript>`,
	})

	f := newTestFetcher(server.URL, nil)

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, extract.ErrNoTextContent)
}

func TestFetchTranscriptPageFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	f := newTestFetcher(server.URL, nil)

	got, err := f.FetchTranscript(context.Background(), testVideoURL)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, extract.ErrFetchFailed)
}

func TestFetchTranscriptInvalidURL(t *testing.T) {
	f := newTestFetcher("http://unused.invalid", nil)

	got, err := f.FetchTranscript(context.Background(), "https://example.com/not-a-video")

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, extract.ErrInvalidURL))
}
