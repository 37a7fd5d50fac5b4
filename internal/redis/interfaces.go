package redis

import (
	"context"
	"time"

	"freight/internal/domain"
)

// LocationStoreInterface defines the interface for the tracking read path.
type LocationStoreInterface interface {
	SetLatest(ctx context.Context, sample *domain.GeoSample) error
	GetLatest(ctx context.Context, tripID string) (*domain.GeoSample, error)
	InvalidateLatest(ctx context.Context, tripID string) error
	RemoveDriver(ctx context.Context, driverID string) error
	FleetPositions(ctx context.Context, lat, lng, radiusKm float64) ([]FleetPosition, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error)
	ReleaseDriverLock(ctx context.Context, driverID string) error
}

// CacheStoreInterface defines the interface for trip snapshot caching.
type CacheStoreInterface interface {
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	SetTrip(ctx context.Context, trip *domain.Trip) error
	InvalidateTrip(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CacheStoreInterface    = (*CacheStore)(nil)
)
