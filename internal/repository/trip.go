package repository

import (
	"context"

	"freight/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip at version 1.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves recent trips.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// UpdateVersioned writes the trip only if the stored row still carries
	// fromVersion, bumping the version by one. Returns ErrVersionConflict
	// when the row exists at a different version.
	UpdateVersioned(ctx context.Context, trip *domain.Trip, fromVersion int64) error

	// Delete removes a trip. Callers must enforce the PENDING-only rule.
	Delete(ctx context.Context, id string) error

	// GetActiveByDriverID retrieves the trip currently binding a driver,
	// or nil when the driver has no trip in the active set.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error)

	// NextSequenceNo reserves the next human-readable trip number.
	NextSequenceNo(ctx context.Context) (string, error)
}
