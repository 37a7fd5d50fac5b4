package postgres

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/domain"
	"freight/internal/repository"
)

// GeoSampleRepository is a PostgreSQL implementation of
// repository.GeoSampleRepository. Rows are append-only.
type GeoSampleRepository struct {
	q Querier
}

// NewGeoSampleRepository creates a new PostgreSQL geo sample repository.
func NewGeoSampleRepository(db *sql.DB) *GeoSampleRepository {
	return &GeoSampleRepository{q: db}
}

// NewGeoSampleRepositoryWithTx creates a geo sample repository using a transaction.
func NewGeoSampleRepositoryWithTx(tx *sql.Tx) *GeoSampleRepository {
	return &GeoSampleRepository{q: tx}
}

const geoSampleColumns = `
	id, trip_id, driver_id, lat, lng, speed_kmh, heading, server_received_at
`

// Create persists one sample.
func (r *GeoSampleRepository) Create(ctx context.Context, sample *domain.GeoSample) error {
	query := `
		INSERT INTO geo_samples (` + geoSampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		sample.ID,
		sample.TripID,
		sample.DriverID,
		sample.Lat,
		sample.Lng,
		nullFloat(sample.SpeedKmh, sample.HasSpeed),
		nullFloat(sample.Heading, sample.HasHeading),
		sample.ServerReceivedAt,
	)

	return err
}

// Latest returns the most recently received sample for the trip, or nil.
func (r *GeoSampleRepository) Latest(ctx context.Context, tripID string) (*domain.GeoSample, error) {
	query := `SELECT ` + geoSampleColumns + `
		FROM geo_samples
		WHERE trip_id = $1
		ORDER BY server_received_at DESC
		LIMIT 1
	`

	sample, err := scanGeoSample(r.q.QueryRowContext(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return sample, nil
}

// History returns samples most-recent-first, restartable via offset.
func (r *GeoSampleRepository) History(ctx context.Context, tripID string, limit, offset int) ([]*domain.GeoSample, error) {
	query := `SELECT ` + geoSampleColumns + `
		FROM geo_samples
		WHERE trip_id = $1
		ORDER BY server_received_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.QueryContext(ctx, query, tripID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*domain.GeoSample
	for rows.Next() {
		sample, err := scanGeoSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

func scanGeoSample(s scanner) (*domain.GeoSample, error) {
	var sample domain.GeoSample
	var speed, heading sql.NullFloat64

	err := s.Scan(
		&sample.ID,
		&sample.TripID,
		&sample.DriverID,
		&sample.Lat,
		&sample.Lng,
		&speed,
		&heading,
		&sample.ServerReceivedAt,
	)
	if err != nil {
		return nil, err
	}

	if speed.Valid {
		sample.SpeedKmh = speed.Float64
		sample.HasSpeed = true
	}
	if heading.Valid {
		sample.Heading = heading.Float64
		sample.HasHeading = true
	}

	return &sample, nil
}

// Ensure GeoSampleRepository implements repository.GeoSampleRepository.
var _ repository.GeoSampleRepository = (*GeoSampleRepository)(nil)
