package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// CaptureBuffer accumulates log output for test assertions. slog handlers
// may be driven from several goroutines, so writes are serialized.
type CaptureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *CaptureBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *CaptureBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes the captured output as one JSON object per line.
func (b *CaptureBuffer) Entries() ([]map[string]interface{}, error) {
	sc := bufio.NewScanner(strings.NewReader(b.String()))

	var entries []map[string]interface{}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// NewTestLogger returns a debug-level JSON logger writing into the returned
// buffer, for tests that assert on log output.
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureBuffer) {
	t.Helper()

	buf := &CaptureBuffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buf
}
