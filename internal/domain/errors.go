package domain

import "errors"

// Error taxonomy shared across services. Call sites wrap these with
// fmt.Errorf("...: %w", ...) so the HTTP layer can map them to status
// codes with errors.Is.
var (
	// ErrInvalidInput marks a malformed client payload. No partial
	// processing happens once it is raised.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a scope or record that does not exist or does
	// not belong to the caller.
	ErrNotFound = errors.New("not found")

	// ErrStore marks an underlying persistence failure.
	ErrStore = errors.New("store failure")
)
