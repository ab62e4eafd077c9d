package task

import "errors"

var (
	// ErrInvalidInput is returned when a create or update is rejected.
	// Nothing changes in memory or in storage.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReadFailed means the stored collection could not be read or decoded.
	// The in-memory collection is left as it was.
	ErrReadFailed = errors.New("failed to load tasks")

	// ErrWriteFailed means the collection could not be persisted.
	// The in-memory collection is still authoritative.
	ErrWriteFailed = errors.New("failed to save tasks")
)
