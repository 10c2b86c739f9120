package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorWrapping(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(ErrSourceNotFound, ErrNotFound),
		"entity-specific not found errors should wrap ErrNotFound")

	wrapped := fmt.Errorf("loading source for replay: %w", ErrSourceNotFound)
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsDuplicateError(wrapped))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("source", "save", "insert failed", cause)

	assert.Contains(t, err.Error(), "save operation on source failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, cause), "StoreError should unwrap to its cause")

	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "source", storeErr.Entity)
}

func TestStoreErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := NewStoreError("source", "list", "scan failed", nil)
	assert.Equal(t, "list operation on source failed: scan failed", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
