package service

import (
	"context"

	"freight/internal/domain"
	"freight/internal/repository"
)

// MatchingService answers which drivers can take a trip. Busy drivers are
// returned flagged rather than hidden so a dispatcher can override knowingly.
type MatchingService struct {
	driverRepo repository.DriverRepository
	tripRepo   repository.TripRepository
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(driverRepo repository.DriverRepository, tripRepo repository.TripRepository) *MatchingService {
	return &MatchingService{
		driverRepo: driverRepo,
		tripRepo:   tripRepo,
	}
}

// AvailableDriver is a qualified driver plus its live binding state. The
// HasActiveTrip flag is derived from trip rows at query time; there is no
// stored busy flag to drift out of sync.
type AvailableDriver struct {
	Driver        *domain.Driver
	HasActiveTrip bool
}

// FindAvailable returns active drivers qualified for the vehicle type and,
// when given, the temperature profile. Order is stable by driver name, which
// leaves room for a load heuristic later without changing the contract.
func (s *MatchingService) FindAvailable(ctx context.Context, vehicleTypeID, temperatureID string) ([]AvailableDriver, error) {
	if vehicleTypeID == "" {
		return nil, ErrVehicleTypeRequired
	}

	drivers, err := s.driverRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	var matches []AvailableDriver
	for _, driver := range drivers {
		if !driver.Qualified(vehicleTypeID, temperatureID) {
			continue
		}

		active, err := s.tripRepo.GetActiveByDriverID(ctx, driver.ID)
		if err != nil {
			return nil, err
		}

		matches = append(matches, AvailableDriver{
			Driver:        driver,
			HasActiveTrip: active != nil,
		})
	}

	return matches, nil
}
