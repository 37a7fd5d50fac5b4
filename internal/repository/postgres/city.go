package postgres

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/domain"
	"freight/internal/repository"
)

// CityRepository is a PostgreSQL implementation of repository.CityRepository.
type CityRepository struct {
	q Querier
}

// NewCityRepository creates a new PostgreSQL city repository.
func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{q: db}
}

// GetByID retrieves a city by ID.
func (r *CityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	var city domain.City

	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, lat, lng FROM cities WHERE id = $1`, id,
	).Scan(&city.ID, &city.Name, &city.Lat, &city.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &city, nil
}

// GetAll retrieves all cities in insertion order.
func (r *CityRepository) GetAll(ctx context.Context) ([]domain.City, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, lat, lng FROM cities ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var city domain.City
		if err := rows.Scan(&city.ID, &city.Name, &city.Lat, &city.Lng); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}

	return cities, rows.Err()
}

// Ensure CityRepository implements repository.CityRepository.
var _ repository.CityRepository = (*CityRepository)(nil)
