package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"freight/internal/domain"
	"freight/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `
	id, sequence_no, customer_id, driver_id, vehicle_type_id, broker_id,
	temperature_id,
	origin_city_id, origin_lat, origin_lng, origin_address,
	dest_city_id, dest_lat, dest_lng, dest_address,
	cargo_notes, cargo_weight_kg, price, currency, status, version,
	created_at, scheduled_at, actual_start_at, delivered_at
`

// Create persists a new trip at version 1.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`

	trip.Version = 1

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.SequenceNo,
		trip.CustomerID,
		nullString(trip.DriverID),
		trip.VehicleTypeID,
		nullString(trip.BrokerID),
		trip.TemperatureID,
		nullString(trip.Origin.CityID),
		nullLat(trip.Origin),
		nullLng(trip.Origin),
		trip.Origin.Address,
		nullString(trip.Destination.CityID),
		nullLat(trip.Destination),
		nullLng(trip.Destination),
		trip.Destination.Address,
		trip.CargoNotes,
		trip.CargoWeightKg,
		trip.Price,
		trip.Currency,
		trip.Status,
		trip.Version,
		trip.CreatedAt,
		nullTime(trip.ScheduledAt),
		nullTime(trip.ActualStartAt),
		nullTime(trip.DeliveredAt),
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetAll retrieves recent trips.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// UpdateVersioned writes the trip only if the stored row still carries
// fromVersion. The trip's Version field is set to the new version on success.
func (r *TripRepository) UpdateVersioned(ctx context.Context, trip *domain.Trip, fromVersion int64) error {
	query := `
		UPDATE trips
		SET driver_id = $1, status = $2, version = version + 1,
		    scheduled_at = $3, actual_start_at = $4, delivered_at = $5,
		    price = $6, currency = $7
		WHERE id = $8 AND version = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(trip.DriverID),
		trip.Status,
		nullTime(trip.ScheduledAt),
		nullTime(trip.ActualStartAt),
		nullTime(trip.DeliveredAt),
		trip.Price,
		trip.Currency,
		trip.ID,
		fromVersion,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a lost race from a missing row.
		var exists bool
		checkErr := r.q.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, trip.ID,
		).Scan(&exists)
		if checkErr != nil {
			return checkErr
		}
		if exists {
			return repository.ErrVersionConflict
		}
		return repository.ErrNotFound
	}

	trip.Version = fromVersion + 1
	return nil
}

// Delete removes a trip row.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetActiveByDriverID retrieves the trip currently binding a driver.
// Returns nil if the driver has no trip in the active set.
func (r *TripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND status = ANY($2)
		LIMIT 1
	`

	active := domain.ActiveStatuses()
	statuses := make([]string, len(active))
	for i, s := range active {
		statuses[i] = string(s)
	}

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, driverID, pq.Array(statuses)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// NextSequenceNo reserves the next human-readable trip number.
func (r *TripRepository) NextSequenceNo(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT nextval('trip_sequence_no')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("FT-%06d", n), nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driverID, brokerID, originCity, destCity sql.NullString
	var originLat, originLng, destLat, destLng sql.NullFloat64
	var scheduledAt, actualStartAt, deliveredAt sql.NullTime

	err := s.Scan(
		&trip.ID,
		&trip.SequenceNo,
		&trip.CustomerID,
		&driverID,
		&trip.VehicleTypeID,
		&brokerID,
		&trip.TemperatureID,
		&originCity,
		&originLat,
		&originLng,
		&trip.Origin.Address,
		&destCity,
		&destLat,
		&destLng,
		&trip.Destination.Address,
		&trip.CargoNotes,
		&trip.CargoWeightKg,
		&trip.Price,
		&trip.Currency,
		&trip.Status,
		&trip.Version,
		&trip.CreatedAt,
		&scheduledAt,
		&actualStartAt,
		&deliveredAt,
	)
	if err != nil {
		return nil, err
	}

	trip.DriverID = driverID.String
	trip.BrokerID = brokerID.String
	trip.Origin.CityID = originCity.String
	trip.Destination.CityID = destCity.String

	if originLat.Valid && originLng.Valid {
		trip.Origin.Lat = originLat.Float64
		trip.Origin.Lng = originLng.Float64
		trip.Origin.HasGeo = true
	}
	if destLat.Valid && destLng.Valid {
		trip.Destination.Lat = destLat.Float64
		trip.Destination.Lng = destLng.Float64
		trip.Destination.HasGeo = true
	}

	if scheduledAt.Valid {
		trip.ScheduledAt = scheduledAt.Time
	}
	if actualStartAt.Valid {
		trip.ActualStartAt = actualStartAt.Time
	}
	if deliveredAt.Valid {
		trip.DeliveredAt = deliveredAt.Time
	}

	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
