package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when a versioned update lost a race:
	// the row exists but no longer carries the expected version.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate is returned when an insert violates a uniqueness rule,
	// e.g. a second invoice for the same trip.
	ErrDuplicate = errors.New("duplicate entity")
)
