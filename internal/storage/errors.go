package storage

import (
	"errors"
	"fmt"
)

// =============================================================================
// Sentinel Errors
// =============================================================================

var (
	// ErrNotFound is returned when a requested object doesn't exist.
	ErrNotFound = errors.New("object not found")

	// ErrKeyExists is returned when attempting to create an object at a key
	// that already exists (when overwrite is disabled).
	ErrKeyExists = errors.New("object already exists at this key")

	// ErrInvalidKey is returned when a storage key is invalid or contains
	// path traversal attempts like "../".
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrTooLarge is returned when an object exceeds the maximum allowed size.
	ErrTooLarge = errors.New("object exceeds maximum size")

	// ErrAccessDenied is returned when the storage provider denies access.
	ErrAccessDenied = errors.New("access denied")
)

// =============================================================================
// Structured Error Type
// =============================================================================

// StorageError wraps storage operation errors with additional context and
// supports errors.Is() against the sentinel errors via Unwrap.
type StorageError struct {
	Op  string // Operation that failed (e.g., "Put", "Get")
	Key string // Storage key involved
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates an object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
