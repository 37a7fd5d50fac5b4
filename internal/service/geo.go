package service

import (
	"context"

	"freight/internal/domain"
	"freight/internal/repository"
)

// GeoService resolves raw coordinates against the known-city catalogue.
type GeoService struct {
	cityRepo repository.CityRepository
}

// NewGeoService creates a new GeoService.
func NewGeoService(cityRepo repository.CityRepository) *GeoService {
	return &GeoService{cityRepo: cityRepo}
}

// ResolveCity maps a point to the nearest known city by great-circle
// distance. Ties break by catalogue order. Callers only consult this when no
// explicit city was chosen.
func (s *GeoService) ResolveCity(ctx context.Context, lat, lng float64) (*domain.City, error) {
	if !domain.ValidCoordinate(lat, lng) {
		return nil, ErrInvalidCoordinate
	}

	cities, err := s.cityRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, ErrNoCities
	}

	return domain.NearestCity(lat, lng, cities), nil
}

// Cities lists the catalogue.
func (s *GeoService) Cities(ctx context.Context) ([]domain.City, error) {
	return s.cityRepo.GetAll(ctx)
}
