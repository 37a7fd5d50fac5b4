package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/redis"
	"freight/internal/repository"
)

// driverLockTTL bounds how long an assignment lock can outlive a crashed
// dispatcher request.
const driverLockTTL = 10 * time.Second

// TripService owns the trip lifecycle. Every status change goes through
// Transition, which serializes per trip via an optimistic version check.
type TripService struct {
	tripRepo       repository.TripRepository
	driverRepo     repository.DriverRepository
	cityRepo       repository.CityRepository
	invoiceService *InvoiceService
	geoService     *GeoService
	lockStore      redis.LockStoreInterface
	locationStore  redis.LocationStoreInterface
	cacheStore     redis.CacheStoreInterface
}

// NewTripService creates a new TripService.
func NewTripService(
	tripRepo repository.TripRepository,
	driverRepo repository.DriverRepository,
	cityRepo repository.CityRepository,
	invoiceService *InvoiceService,
	geoService *GeoService,
	lockStore redis.LockStoreInterface,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *TripService {
	return &TripService{
		tripRepo:       tripRepo,
		driverRepo:     driverRepo,
		cityRepo:       cityRepo,
		invoiceService: invoiceService,
		geoService:     geoService,
		lockStore:      lockStore,
		locationStore:  locationStore,
		cacheStore:     cacheStore,
	}
}

// BookTripRequest contains the parameters for creating a trip.
type BookTripRequest struct {
	CustomerID    string
	VehicleTypeID string
	TemperatureID string
	BrokerID      string
	Origin        domain.TripEndpoint
	Destination   domain.TripEndpoint
	CargoNotes    string
	CargoWeightKg float64
	Price         float64
	Currency      string
	ScheduledAt   time.Time
}

// BookTrip creates a new trip in PENDING. Endpoints given as raw coordinates
// are annotated with their nearest city; an explicit city choice is never
// overridden.
func (s *TripService) BookTrip(ctx context.Context, req BookTripRequest) (*domain.Trip, error) {
	if req.VehicleTypeID == "" {
		return nil, ErrVehicleTypeRequired
	}
	if req.TemperatureID == "" {
		return nil, ErrTemperatureRequired
	}
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if !req.Origin.Resolved() || !req.Destination.Resolved() {
		return nil, ErrUnresolvedEndpoint
	}

	origin, err := s.resolveEndpoint(ctx, req.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolveEndpoint(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	seqNo, err := s.tripRepo.NextSequenceNo(ctx)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		SequenceNo:    seqNo,
		CustomerID:    req.CustomerID,
		VehicleTypeID: req.VehicleTypeID,
		TemperatureID: req.TemperatureID,
		BrokerID:      req.BrokerID,
		Origin:        origin,
		Destination:   destination,
		CargoNotes:    req.CargoNotes,
		CargoWeightKg: req.CargoWeightKg,
		Price:         req.Price,
		Currency:      currency,
		Status:        domain.TripStatusPending,
		CreatedAt:     time.Now(),
		ScheduledAt:   req.ScheduledAt,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// resolveEndpoint fills in the nearest city for coordinate-only endpoints.
func (s *TripService) resolveEndpoint(ctx context.Context, e domain.TripEndpoint) (domain.TripEndpoint, error) {
	if e.CityID != "" {
		if _, err := s.cityRepo.GetByID(ctx, e.CityID); err != nil {
			return e, err
		}
		return e, nil
	}

	if !domain.ValidCoordinate(e.Lat, e.Lng) {
		return e, ErrInvalidCoordinate
	}

	city, err := s.geoService.ResolveCity(ctx, e.Lat, e.Lng)
	if err != nil {
		return e, err
	}
	e.CityID = city.ID
	return e, nil
}

// TransitionRequest contains the parameters for a status transition.
type TransitionRequest struct {
	TripID    string
	NewStatus domain.TripStatus
	ActorRole domain.ActorRole
	ActorID   string
	DriverID  string // driver to bind when entering DRIVER_REQUESTED/ASSIGNED
	Override  bool   // dispatcher override for driver conflicts
}

// TransitionResult carries the post-transition trip and, for the delivered
// transition, the invoice produced by the hook.
type TransitionResult struct {
	Trip    *domain.Trip
	Invoice *domain.Invoice
}

// Transition applies one edge of the lifecycle graph. Exactly one of two
// concurrent calls on the same trip succeeds; the loser gets
// ErrStaleTripVersion and must re-read and retry.
func (s *TripService) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if !req.NewStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(trip.Status, req.NewStatus) {
		return nil, ErrInvalidTransition
	}

	if err := authorizeTransition(trip, req); err != nil {
		return nil, err
	}

	fromVersion := trip.Version
	now := time.Now()

	// Bind the driver when entering a binding status. The assignment lock is
	// held until the versioned update lands, so a concurrent assignment cannot
	// slip in between the conflict check and the commit.
	if req.NewStatus == domain.TripStatusDriverRequested || req.NewStatus == domain.TripStatusAssigned {
		driverID := req.DriverID
		if driverID == "" {
			driverID = trip.DriverID
		}
		if driverID == "" {
			return nil, ErrDriverRequired
		}

		if driverID != trip.DriverID {
			release, err := s.lockDriver(ctx, driverID)
			if err != nil {
				return nil, err
			}
			defer release()

			if err := s.bindDriver(ctx, trip, driverID, req.Override); err != nil {
				return nil, err
			}
		}
	}

	trip.Status = req.NewStatus

	if req.NewStatus.IsTrackedActive() && trip.ActualStartAt.IsZero() {
		trip.ActualStartAt = now
	}
	if req.NewStatus == domain.TripStatusDelivered {
		trip.DeliveredAt = now
	}

	if err := s.tripRepo.UpdateVersioned(ctx, trip, fromVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrStaleTripVersion
		}
		return nil, err
	}

	s.afterTransition(ctx, trip)

	result := &TransitionResult{Trip: trip}

	// The delivered transition is the single place invoices come from.
	if req.NewStatus == domain.TripStatusDelivered && s.invoiceService != nil {
		invoice, err := s.invoiceService.GenerateForDeliveredTrip(ctx, trip.ID)
		if err != nil {
			// Transition is already committed; the hook is idempotent and
			// retryable through the internal invoice endpoint.
			log.Printf("invoice generation failed for trip %s: %v", trip.ID, err)
		} else {
			result.Invoice = invoice
		}
	}

	return result, nil
}

// lockDriver takes the driver's assignment lock. The returned release must
// not run before the versioned update commits.
func (s *TripService) lockDriver(ctx context.Context, driverID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireDriverLock(ctx, driverID, driverLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrDriverConflict
	}
	return func() { _ = s.lockStore.ReleaseDriverLock(ctx, driverID) }, nil
}

// bindDriver checks the single-active-trip invariant and writes the binding
// onto the in-memory trip. Callers hold the driver's assignment lock.
func (s *TripService) bindDriver(ctx context.Context, trip *domain.Trip, driverID string, override bool) error {
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return err
	}

	if !override {
		active, err := s.tripRepo.GetActiveByDriverID(ctx, driverID)
		if err != nil {
			return err
		}
		if active != nil && active.ID != trip.ID {
			return ErrDriverConflict
		}
	}

	trip.DriverID = driverID
	return nil
}

// afterTransition maintains the Redis read model. Failures here are logged,
// not surfaced: the Postgres row is the source of truth and caches expire.
func (s *TripService) afterTransition(ctx context.Context, trip *domain.Trip) {
	if s.cacheStore != nil {
		if err := s.cacheStore.InvalidateTrip(ctx, trip.ID); err != nil {
			log.Printf("trip cache invalidation failed for %s: %v", trip.ID, err)
		}
	}

	if trip.Status.IsTerminal() && s.locationStore != nil {
		_ = s.locationStore.InvalidateLatest(ctx, trip.ID)
		if trip.DriverID != "" {
			_ = s.locationStore.RemoveDriver(ctx, trip.DriverID)
		}
	}
}

// authorizeTransition enforces who may drive which edge.
func authorizeTransition(trip *domain.Trip, req TransitionRequest) error {
	switch req.ActorRole {
	case domain.RoleDispatcher:
		// Dispatchers may drive any legal edge, including force-deliver.
		return nil

	case domain.RoleDriver:
		if trip.DriverID == "" || req.ActorID != trip.DriverID {
			return ErrNotTripDriver
		}
		if req.NewStatus == domain.TripStatusCancelled ||
			req.NewStatus == domain.TripStatusAssigned ||
			req.NewStatus == domain.TripStatusDriverRequested {
			return ErrForbiddenTransition
		}
		return nil

	case domain.RoleCustomer:
		// Customers only cancel, and only within the quotable window.
		if req.NewStatus != domain.TripStatusCancelled {
			return ErrForbiddenTransition
		}
		if trip.Status != domain.TripStatusPending && trip.Status != domain.TripStatusAssigned {
			return ErrForbiddenTransition
		}
		return nil
	}

	return ErrForbiddenTransition
}

// GetTrip retrieves a trip by ID, reading through the snapshot cache. The
// cache is invalidated on every transition, so a hit is at most one TTL
// behind a write that raced the invalidation.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetTrip(ctx, tripID); err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetTrip(ctx, trip); err != nil {
			log.Printf("trip cache population failed for %s: %v", tripID, err)
		}
	}

	return trip, nil
}

// GetAllTrips retrieves recent trips.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// DeleteTrip removes a trip. Dispatcher-only, PENDING-only; trips that have
// entered the lifecycle are never physically deleted.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string, role domain.ActorRole) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	if role != domain.RoleDispatcher {
		return ErrForbiddenTransition
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	if trip.Status != domain.TripStatusPending {
		return ErrTripNotPending
	}

	return s.tripRepo.Delete(ctx, tripID)
}
