package shared

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDRoundTrip(t *testing.T) {
	t.Run("absent from a fresh context", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("set and read back", func(t *testing.T) {
		ctx := SetTraceID(context.Background())

		traceID := GetTraceID(ctx)
		assert.NotEmpty(t, traceID)
		assert.Len(t, traceID, 32, "16 random bytes encode to 32 hex characters")
	})

	t.Run("parent context stays untouched", func(t *testing.T) {
		parent := context.Background()
		_ = SetTraceID(parent)

		assert.Empty(t, GetTraceID(parent))
	})

	t.Run("non-string value is treated as absent", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), TraceIDKey, 123)

		assert.Empty(t, GetTraceID(ctx))
	})
}

func TestGenerateTraceID(t *testing.T) {
	traceID := generateTraceID()
	require.Len(t, traceID, 32)

	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "trace ID must be valid hex")

	// Uniqueness is probabilistic; a collision in a thousand draws of
	// 16 random bytes would point at a broken generator.
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "trace IDs must not repeat")
		seen[id] = true
	}
}

// failingReader errors on every read.
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("simulated rand failure")
}

// traceIDFromReader mirrors generateTraceID with an injectable source;
// crypto/rand.Reader itself cannot be swapped out in tests.
func traceIDFromReader(reader io.Reader) string {
	b := make([]byte, TraceIDLength)
	n, err := reader.Read(b)
	if err != nil || n != TraceIDLength {
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(b)
}

func TestTraceIDRandFallback(t *testing.T) {
	traceID := traceIDFromReader(failingReader{})

	require.NotEmpty(t, traceID, "fallback must still produce an ID")
	assert.Len(t, traceID, 32)

	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "fallback ID must be valid hex")
}

func TestFallbackTraceIDUniqueness(t *testing.T) {
	const iterations = 100
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id := generateFallbackTraceID()
		require.Len(t, id, 32)
		_, err := hex.DecodeString(id)
		require.NoError(t, err)

		// The fallback mixes in the clock, so let it tick between draws.
		time.Sleep(time.Millisecond)

		assert.False(t, seen[id], "fallback IDs must not repeat")
		seen[id] = true
	}
}
