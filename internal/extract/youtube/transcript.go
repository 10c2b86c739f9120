// Package youtube implements transcript extraction by scraping the caption
// tracks YouTube embeds in its video pages. There is no official transcript
// API; the page carries a "captions" JSON blob whose tracks point at the
// timedtext documents this package downloads and flattens.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
)

// Patterns matching the page structure YouTube serves.
var (
	videoIDPattern = regexp.MustCompile(
		`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`,
	)
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	titlePattern  = regexp.MustCompile(`<title>(.+?) - YouTube</title>`)
	cuePattern    = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)">([^<]*)</text>`)
)

// Markers delimiting the captions JSON inside the video page HTML.
const (
	captionsMarker     = `"captions":`
	videoDetailsMarker = `,"videoDetails`
)

const defaultBaseURL = "https://www.youtube.com"

// Config carries the optional settings for a Fetcher.
type Config struct {
	// HTTPClient is the client used for both page and transcript requests.
	// When nil, a client with a 15 second timeout is used.
	HTTPClient *http.Client

	// BaseURL overrides the video page host, primarily for tests.
	BaseURL string

	// Languages orders caption track selection; the first language with an
	// available track wins. When empty or nothing matches, the first track
	// the video offers is used.
	Languages []string
}

// Fetcher implements extract.TranscriptFetcher against the public YouTube
// video pages.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	languages  []string
	logger     *slog.Logger
}

// NewFetcher creates a transcript fetcher with the given configuration.
// If logger is nil, a default logger will be used.
func NewFetcher(cfg Config, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Fetcher{
		httpClient: client,
		baseURL:    baseURL,
		languages:  cfg.Languages,
		logger:     log.With(slog.String("component", "youtube_fetcher")),
	}
}

// Ensure Fetcher implements extract.TranscriptFetcher interface
var _ extract.TranscriptFetcher = (*Fetcher)(nil)

// captionTrack is the subset of the embedded captions JSON we rely on.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type captionsPayload struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// ParseVideoID extracts the canonical 11-character video ID from a watch
// URL, a short URL, an embed URL, or a bare ID. Returns
// extract.ErrInvalidURL when the input matches none of these forms.
func ParseVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)

	if bareIDPattern.MatchString(url) {
		return url, nil
	}

	if match := videoIDPattern.FindStringSubmatch(url); match != nil {
		return match[1], nil
	}

	return "", fmt.Errorf("%w: %q is not a video URL or ID", extract.ErrInvalidURL, url)
}

// FetchTranscript implements extract.TranscriptFetcher.FetchTranscript
func (f *Fetcher) FetchTranscript(ctx context.Context, url string) (*extract.VideoTranscript, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)

	videoID, err := ParseVideoID(url)
	if err != nil {
		return nil, err
	}

	page, err := f.get(ctx, fmt.Sprintf("%s/watch?v=%s", f.baseURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("%w: video page for %s: %v", extract.ErrFetchFailed, videoID, err)
	}

	title := ""
	if match := titlePattern.FindStringSubmatch(page); len(match) > 1 {
		title = html.UnescapeString(match[1])
	}

	track, trackCount, err := f.findCaptionTrack(page, videoID)
	if err != nil {
		return nil, err
	}

	log.Debug("selected caption track",
		slog.String("video_id", videoID),
		slog.String("language", track.LanguageCode),
		slog.Int("available_tracks", trackCount))

	timedtext, err := f.get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: transcript for %s: %v", extract.ErrFetchFailed, videoID, err)
	}

	text := flattenCues(timedtext)
	if text == "" {
		return nil, fmt.Errorf("%w: caption track for %s is empty", extract.ErrNoTextContent, videoID)
	}

	log.Info("transcript extracted",
		slog.String("video_id", videoID),
		slog.String("language", track.LanguageCode),
		slog.Int("chars", len(text)))

	return &extract.VideoTranscript{
		VideoID: videoID,
		Title:   title,
		Text:    text,
	}, nil
}

// get performs a GET request and returns the response body as a string.
func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; kavram-api/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// findCaptionTrack locates the captions JSON in the page HTML and picks the
// best track for the configured language preference.
func (f *Fetcher) findCaptionTrack(page, videoID string) (captionTrack, int, error) {
	_, rest, found := strings.Cut(page, captionsMarker)
	if !found {
		return captionTrack{}, 0, fmt.Errorf("%w: no captions for video %s", extract.ErrTranscriptUnavailable, videoID)
	}

	end := strings.Index(rest, videoDetailsMarker)
	if end == -1 {
		return captionTrack{}, 0, fmt.Errorf("%w: malformed captions metadata for video %s", extract.ErrTranscriptUnavailable, videoID)
	}

	var payload captionsPayload
	if err := json.Unmarshal([]byte(rest[:end]), &payload); err != nil {
		return captionTrack{}, 0, fmt.Errorf("%w: unparseable captions metadata for video %s: %v",
			extract.ErrTranscriptUnavailable, videoID, err)
	}

	tracks := payload.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return captionTrack{}, 0, fmt.Errorf("%w: no caption tracks for video %s", extract.ErrTranscriptUnavailable, videoID)
	}

	return pickTrack(tracks, f.languages), len(tracks), nil
}

// pickTrack returns the first track whose language matches the preference
// list, trying exact codes first and then regional variants ("en" matches
// "en-US"). When nothing matches, the video's first track is returned.
func pickTrack(tracks []captionTrack, preferred []string) captionTrack {
	for _, lang := range preferred {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}

	for _, lang := range preferred {
		for _, t := range tracks {
			if strings.HasPrefix(t.LanguageCode, lang+"-") {
				return t
			}
		}
	}

	return tracks[0]
}

// flattenCues strips the timedtext XML markup and joins the cue texts into
// a single space-separated string.
func flattenCues(timedtext string) string {
	matches := cuePattern.FindAllStringSubmatch(timedtext, -1)

	var b strings.Builder
	for _, match := range matches {
		text := strings.TrimSpace(html.UnescapeString(match[3]))
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}

	return b.String()
}
