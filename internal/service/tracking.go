package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/redis"
	"freight/internal/repository"
)

// TrackingService ingests GPS samples and serves the tracking read path.
// Ingestion is append-only; the only ordering key is the server-assigned
// receive timestamp.
type TrackingService struct {
	sampleRepo    repository.GeoSampleRepository
	tripRepo      repository.TripRepository
	driverRepo    repository.DriverRepository
	locationStore redis.LocationStoreInterface
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(
	sampleRepo repository.GeoSampleRepository,
	tripRepo repository.TripRepository,
	driverRepo repository.DriverRepository,
	locationStore redis.LocationStoreInterface,
) *TrackingService {
	return &TrackingService{
		sampleRepo:    sampleRepo,
		tripRepo:      tripRepo,
		driverRepo:    driverRepo,
		locationStore: locationStore,
	}
}

// IngestRequest contains one device-reported position.
type IngestRequest struct {
	TripID     string
	DriverID   string
	Lat        float64
	Lng        float64
	SpeedKmh   float64
	Heading    float64
	HasSpeed   bool
	HasHeading bool
}

// Ingest validates and persists one sample. A rejected sample never partially
// persists. Samples arriving after the trip left the tracked-active set fail
// fast with ErrTrackingNotActive.
func (s *TrackingService) Ingest(ctx context.Context, req IngestRequest) (string, error) {
	if req.TripID == "" {
		return "", ErrInvalidTripID
	}
	if req.DriverID == "" {
		return "", ErrInvalidDriverID
	}
	if !domain.ValidCoordinate(req.Lat, req.Lng) {
		return "", ErrInvalidCoordinate
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return "", err
	}

	if !trip.Status.IsTrackedActive() {
		return "", ErrTrackingNotActive
	}
	if trip.DriverID == "" || trip.DriverID != req.DriverID {
		return "", ErrNotTripDriver
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return "", err
	}
	if !driver.TrackingEnabled {
		return "", ErrTrackingNotActive
	}

	sample := &domain.GeoSample{
		ID:               uuid.New().String(),
		TripID:           req.TripID,
		DriverID:         req.DriverID,
		Lat:              req.Lat,
		Lng:              req.Lng,
		SpeedKmh:         req.SpeedKmh,
		Heading:          req.Heading,
		HasSpeed:         req.HasSpeed,
		HasHeading:       req.HasHeading,
		ServerReceivedAt: time.Now(),
	}

	if err := s.sampleRepo.Create(ctx, sample); err != nil {
		return "", err
	}

	// Best effort: readers fall back to Postgres on a cache miss, and a
	// retransmitted older sample must not clobber a newer cached one.
	if s.locationStore != nil {
		if cached, err := s.locationStore.GetLatest(ctx, req.TripID); err == nil {
			if cached == nil || !cached.ServerReceivedAt.After(sample.ServerReceivedAt) {
				if err := s.locationStore.SetLatest(ctx, sample); err != nil {
					log.Printf("latest-location cache update failed for trip %s: %v", req.TripID, err)
				}
			}
		}
	}

	return sample.ID, nil
}

// Latest returns the trip's current location: the sample with the maximum
// server receive time regardless of client send order. Returns nil when no
// sample has arrived yet.
func (s *TrackingService) Latest(ctx context.Context, tripID string) (*domain.GeoSample, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.locationStore != nil {
		if sample, err := s.locationStore.GetLatest(ctx, tripID); err == nil && sample != nil {
			return sample, nil
		}
	}

	return s.sampleRepo.Latest(ctx, tripID)
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// History returns samples most-recent-first, restartable via offset.
func (s *TrackingService) History(ctx context.Context, tripID string, limit, offset int) ([]*domain.GeoSample, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.sampleRepo.History(ctx, tripID, limit, offset)
}

// FleetPositions returns driver positions near a point for the dispatcher
// console map.
func (s *TrackingService) FleetPositions(ctx context.Context, lat, lng, radiusKm float64) ([]redis.FleetPosition, error) {
	if !domain.ValidCoordinate(lat, lng) {
		return nil, ErrInvalidCoordinate
	}
	if s.locationStore == nil {
		return nil, nil
	}
	return s.locationStore.FleetPositions(ctx, lat, lng, radiusKm)
}
