// Package apperr defines the error kinds surfaced by the repository layer.
// NotFound is not an error here: services return (nil, nil) for a missing row
// and handlers translate that into an absence response.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input (unparsable structured fields,
	// missing required values).
	ErrValidation = errors.New("validation failure")
	// ErrStore marks a relational store failure (connectivity, constraint
	// violation that survived the slug retry).
	ErrStore = errors.New("store failure")
	// ErrBlobStore marks an object-storage upload failure. Deletion
	// failures are logged and swallowed instead, per the cleanup policy.
	ErrBlobStore = errors.New("blob store failure")
)

// Validation wraps err (or creates a new error from msg when err is nil) as a
// validation failure.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Store wraps a relational store error.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// BlobStore wraps an object-storage error.
func BlobStore(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrBlobStore, err)
}

// Kind returns a stable machine-readable identifier for the error, or "" when
// the error matches no known kind.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_failure"
	case errors.Is(err, ErrBlobStore):
		return "blob_store_failure"
	case errors.Is(err, ErrStore):
		return "store_failure"
	default:
		return ""
	}
}
