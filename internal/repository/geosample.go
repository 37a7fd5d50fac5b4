package repository

import (
	"context"

	"freight/internal/domain"
)

// GeoSampleRepository defines the append-only persistence for GPS samples.
type GeoSampleRepository interface {
	// Create persists one sample. Samples are never updated or overwritten.
	Create(ctx context.Context, sample *domain.GeoSample) error

	// Latest returns the sample with the maximum server_received_at for the
	// trip, or nil when the trip has no samples yet.
	Latest(ctx context.Context, tripID string) (*domain.GeoSample, error)

	// History returns samples most-recent-first. Restartable via offset.
	History(ctx context.Context, tripID string, limit, offset int) ([]*domain.GeoSample, error)
}
