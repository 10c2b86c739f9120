package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavramlab/kavram-api/internal/api/shared"
)

func TestNewTraceMiddleware(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var capturedTraceID string
	handler := NewTraceMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedTraceID = shared.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest("GET", "/anything", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.NotEmpty(t, capturedTraceID, "handler should see a trace ID in its context")
	assert.Len(t, capturedTraceID, 32)

	// The same ID is echoed to the client.
	assert.Equal(t, capturedTraceID, recorder.Header().Get("X-Trace-ID"))
}

func TestNewTraceMiddlewareUniquePerRequest(t *testing.T) {
	t.Parallel()

	handler := NewTraceMiddleware(nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

		id := recorder.Header().Get("X-Trace-ID")
		assert.False(t, seen[id], "trace IDs must differ between requests")
		seen[id] = true
	}
}
