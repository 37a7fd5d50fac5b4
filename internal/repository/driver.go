package repository

import (
	"context"

	"freight/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Driver, error)

	// GetActive retrieves all active drivers ordered by name.
	GetActive(ctx context.Context) ([]*domain.Driver, error)

	// SetTrackingEnabled toggles location ingestion for a driver.
	SetTrackingEnabled(ctx context.Context, id string, enabled bool) error
}
