package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested entity does not exist. Entity-specific
	// variants such as ErrSourceNotFound wrap it, so errors.Is(err,
	// ErrNotFound) matches all of them.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate means the operation would violate a uniqueness
	// constraint, such as inserting a source under an already-used ID.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the entity failed a validity check before or
	// during storage. The wrapped error carries the specifics.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrSourceNotFound is the source-catalog variant of ErrNotFound.
	ErrSourceNotFound = fmt.Errorf("%w: source", ErrNotFound)
)

// IsNotFoundError reports whether err is ErrNotFound or any entity-specific
// variant of it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError annotates a storage failure with the entity and operation it
// happened in, keeping the original error reachable through Unwrap.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError; err may be nil when there is no
// underlying cause worth keeping.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
