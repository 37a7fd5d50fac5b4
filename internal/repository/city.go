package repository

import (
	"context"

	"freight/internal/domain"
)

// CityRepository defines read access to the known-city catalogue.
type CityRepository interface {
	// GetByID retrieves a city by ID.
	GetByID(ctx context.Context, id string) (*domain.City, error)

	// GetAll retrieves all cities in insertion order.
	GetAll(ctx context.Context) ([]domain.City, error)
}
