package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"freight/internal/domain"
	"freight/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, active, tracking_enabled, vehicle_type_ids, temperature_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.Active,
		driver.TrackingEnabled,
		pq.Array(driver.VehicleTypeIDs),
		pq.Array(driver.TemperatureIDs),
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, name, phone, active, tracking_enabled, vehicle_type_ids, temperature_ids
		FROM drivers WHERE id = $1
	`

	return r.getOne(ctx, query, id)
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	query := `
		SELECT id, name, phone, active, tracking_enabled, vehicle_type_ids, temperature_ids
		FROM drivers WHERE phone = $1
	`

	return r.getOne(ctx, query, phone)
}

func (r *DriverRepository) getOne(ctx context.Context, query string, arg any) (*domain.Driver, error) {
	var driver domain.Driver

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.Active,
		&driver.TrackingEnabled,
		pq.Array(&driver.VehicleTypeIDs),
		pq.Array(&driver.TemperatureIDs),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetActive retrieves all active drivers ordered by name.
func (r *DriverRepository) GetActive(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT id, name, phone, active, tracking_enabled, vehicle_type_ids, temperature_ids
		FROM drivers WHERE active ORDER BY name, id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Phone,
			&driver.Active,
			&driver.TrackingEnabled,
			pq.Array(&driver.VehicleTypeIDs),
			pq.Array(&driver.TemperatureIDs),
		); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}

	return drivers, rows.Err()
}

// SetTrackingEnabled toggles location ingestion for a driver.
func (r *DriverRepository) SetTrackingEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE drivers SET tracking_enabled = $1 WHERE id = $2`, enabled, id)
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

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
