package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"freight/internal/domain"
)

const (
	latestSamplePrefix = "trip:latest:"
	fleetPositionsKey  = "fleet:positions"
)

// FleetPosition is a driver's last known position in the fleet geo index.
type FleetPosition struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// cachedSample is the JSON shape stored for a trip's latest sample.
type cachedSample struct {
	ID               string    `json:"id"`
	TripID           string    `json:"trip_id"`
	DriverID         string    `json:"driver_id"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	SpeedKmh         *float64  `json:"speed_kmh,omitempty"`
	Heading          *float64  `json:"heading,omitempty"`
	ServerReceivedAt time.Time `json:"server_received_at"`
}

// LocationStore keeps the hot read path for tracking in Redis: the latest
// sample per trip (what dispatcher and customer views poll) and a geo index
// of driver positions for the dispatcher console.
type LocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocationStore creates a new LocationStore. ttl bounds how long a cached
// latest sample may outlive ingestion; it is derived from the configured
// device polling interval.
func NewLocationStore(client *redis.Client, ttl time.Duration) *LocationStore {
	return &LocationStore{client: client, ttl: ttl}
}

// SetLatest caches the trip's latest sample and refreshes the driver's entry
// in the fleet geo index.
func (s *LocationStore) SetLatest(ctx context.Context, sample *domain.GeoSample) error {
	cached := cachedSample{
		ID:               sample.ID,
		TripID:           sample.TripID,
		DriverID:         sample.DriverID,
		Lat:              sample.Lat,
		Lng:              sample.Lng,
		ServerReceivedAt: sample.ServerReceivedAt,
	}
	if sample.HasSpeed {
		v := sample.SpeedKmh
		cached.SpeedKmh = &v
	}
	if sample.HasHeading {
		v := sample.Heading
		cached.Heading = &v
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, latestSamplePrefix+sample.TripID, data, s.ttl)
	pipe.GeoAdd(ctx, fleetPositionsKey, &redis.GeoLocation{
		Name:      sample.DriverID,
		Longitude: sample.Lng,
		Latitude:  sample.Lat,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// GetLatest returns the cached latest sample for a trip, or nil on a miss.
func (s *LocationStore) GetLatest(ctx context.Context, tripID string) (*domain.GeoSample, error) {
	data, err := s.client.Get(ctx, latestSamplePrefix+tripID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedSample
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	sample := &domain.GeoSample{
		ID:               cached.ID,
		TripID:           cached.TripID,
		DriverID:         cached.DriverID,
		Lat:              cached.Lat,
		Lng:              cached.Lng,
		ServerReceivedAt: cached.ServerReceivedAt,
	}
	if cached.SpeedKmh != nil {
		sample.SpeedKmh = *cached.SpeedKmh
		sample.HasSpeed = true
	}
	if cached.Heading != nil {
		sample.Heading = *cached.Heading
		sample.HasHeading = true
	}

	return sample, nil
}

// InvalidateLatest drops the cached latest sample for a trip.
func (s *LocationStore) InvalidateLatest(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, latestSamplePrefix+tripID).Err()
}

// RemoveDriver removes a driver from the fleet geo index. Called when the
// driver's trip reaches a terminal state.
func (s *LocationStore) RemoveDriver(ctx context.Context, driverID string) error {
	return s.client.ZRem(ctx, fleetPositionsKey, driverID).Err()
}

// FleetPositions returns driver positions within radiusKm of a point,
// nearest first. Backs the dispatcher console map.
func (s *LocationStore) FleetPositions(ctx context.Context, lat, lng, radiusKm float64) ([]FleetPosition, error) {
	results, err := s.client.GeoRadius(ctx, fleetPositionsKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	positions := make([]FleetPosition, 0, len(results))
	for _, r := range results {
		positions = append(positions, FleetPosition{
			DriverID: r.Name,
			Lat:      r.Latitude,
			Lng:      r.Longitude,
		})
	}

	return positions, nil
}
