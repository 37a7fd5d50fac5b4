package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freight/internal/domain"
	"freight/internal/service"
)

// newTripService wires a TripService against mocks. Redis-backed stores are
// optional in the service, so tests that don't care pass nil.
func newTripService(tripRepo *MockTripRepository, driverRepo *MockDriverRepository) *service.TripService {
	return service.NewTripService(tripRepo, driverRepo, NewMockCityRepository(), nil, nil, nil, nil, nil)
}

// ──────────────────────────────────────────────
// LIFECYCLE GRAPH
// ──────────────────────────────────────────────

func TestLifecycle_LegalAndIllegalEdges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		from  domain.TripStatus
		to    domain.TripStatus
		legal bool
	}{
		{"pending to assigned", domain.TripStatusPending, domain.TripStatusAssigned, true},
		{"pending to driver requested", domain.TripStatusPending, domain.TripStatusDriverRequested, true},
		{"pending to cancelled", domain.TripStatusPending, domain.TripStatusCancelled, true},
		{"pending to delivered", domain.TripStatusPending, domain.TripStatusDelivered, false},
		{"pending to in transit", domain.TripStatusPending, domain.TripStatusInTransit, false},
		{"requested to accepted", domain.TripStatusDriverRequested, domain.TripStatusDriverAccepted, true},
		{"requested to rejected", domain.TripStatusDriverRequested, domain.TripStatusDriverRejected, true},
		{"accepted to assigned", domain.TripStatusDriverAccepted, domain.TripStatusAssigned, true},
		{"assigned to en route pickup", domain.TripStatusAssigned, domain.TripStatusEnRoutePickup, true},
		{"assigned to in progress", domain.TripStatusAssigned, domain.TripStatusInProgress, true},
		{"assigned to picked up", domain.TripStatusAssigned, domain.TripStatusPickedUp, false},
		{"en route to at pickup", domain.TripStatusEnRoutePickup, domain.TripStatusAtPickup, true},
		{"at pickup to picked up", domain.TripStatusAtPickup, domain.TripStatusPickedUp, true},
		{"picked up to in transit", domain.TripStatusPickedUp, domain.TripStatusInTransit, true},
		{"in transit to at destination", domain.TripStatusInTransit, domain.TripStatusAtDestination, true},
		{"at destination to delivered", domain.TripStatusAtDestination, domain.TripStatusDelivered, true},
		{"at destination to cancelled", domain.TripStatusAtDestination, domain.TripStatusCancelled, false},
		{"skipping at destination", domain.TripStatusInTransit, domain.TripStatusDelivered, false},
		{"delivered is terminal", domain.TripStatusDelivered, domain.TripStatusPending, false},
		{"cancelled is terminal", domain.TripStatusCancelled, domain.TripStatusPending, false},
		{"rejected is terminal", domain.TripStatusDriverRejected, domain.TripStatusDriverRequested, false},
	}

	for _, tc := range cases {
		if got := domain.CanTransition(tc.from, tc.to); got != tc.legal {
			t.Errorf("%s: CanTransition(%s, %s) = %v, want %v", tc.name, tc.from, tc.to, got, tc.legal)
		}
	}
}

func TestLifecycle_TerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	t.Parallel()

	all := []domain.TripStatus{
		domain.TripStatusPending, domain.TripStatusDriverRequested,
		domain.TripStatusDriverAccepted, domain.TripStatusDriverRejected,
		domain.TripStatusAssigned, domain.TripStatusInProgress,
		domain.TripStatusEnRoutePickup, domain.TripStatusAtPickup,
		domain.TripStatusPickedUp, domain.TripStatusInTransit,
		domain.TripStatusAtDestination, domain.TripStatusDelivered,
		domain.TripStatusCancelled,
	}

	for _, terminal := range []domain.TripStatus{
		domain.TripStatusDelivered, domain.TripStatusCancelled, domain.TripStatusDriverRejected,
	} {
		if !terminal.IsTerminal() {
			t.Errorf("expected %s to be terminal", terminal)
		}
		for _, to := range all {
			if domain.CanTransition(terminal, to) {
				t.Errorf("terminal status %s has an edge to %s", terminal, to)
			}
		}
	}
}

// ──────────────────────────────────────────────
// TRANSITION SERVICE
// ──────────────────────────────────────────────

func TestTransition_IllegalEdgeRejected(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository())

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusDelivered,
		ActorRole: domain.RoleDispatcher,
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Trip is untouched.
	stored := tripRepo.GetTrip("trip-1")
	if stored.Status != domain.TripStatusPending {
		t.Errorf("expected status PENDING, got %s", stored.Status)
	}
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
}

func TestTransition_AssignBindsDriverAndStartsTracking(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true})

	svc := newTripService(tripRepo, driverRepo)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
		DriverID:  "driver-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Trip.DriverID != "driver-1" {
		t.Errorf("expected bound driver driver-1, got %q", result.Trip.DriverID)
	}
	if result.Trip.ActualStartAt.IsZero() {
		t.Error("expected ActualStartAt set on entering a tracked status")
	}
	if result.Trip.Version != 2 {
		t.Errorf("expected version 2 after one update, got %d", result.Trip.Version)
	}
}

func TestTransition_AssignWithoutDriverFails(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository())

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
	})
	if !errors.Is(err, service.ErrDriverRequired) {
		t.Fatalf("expected ErrDriverRequired, got %v", err)
	}
}

func TestTransition_DriverWithActiveTripConflicts(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true})

	// driver-1 is already hauling trip-1.
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusInTransit, DriverID: "driver-1"})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, driverRepo)

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
		DriverID:  "driver-1",
	})
	if !errors.Is(err, service.ErrDriverConflict) {
		t.Fatalf("expected ErrDriverConflict, got %v", err)
	}

	// Dispatcher override bypasses the conflict.
	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
		DriverID:  "driver-1",
		Override:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error with override: %v", err)
	}
	if result.Trip.DriverID != "driver-1" {
		t.Errorf("expected driver-1 bound after override, got %q", result.Trip.DriverID)
	}
}

func TestTransition_CompletedTripFreesDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true})

	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusAtDestination, DriverID: "driver-1"})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, driverRepo)
	ctx := context.Background()

	if _, err := svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusDelivered,
		ActorRole: domain.RoleDispatcher,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The delivered trip no longer binds the driver.
	if _, err := svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
		DriverID:  "driver-1",
	}); err != nil {
		t.Fatalf("expected driver to be free after delivery, got %v", err)
	}
}

func TestTransition_DeliveredSetsDeliveredAt(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{
		ID:       "trip-1",
		Status:   domain.TripStatusAtDestination,
		DriverID: "driver-1",
	})

	svc := newTripService(tripRepo, NewMockDriverRepository())

	before := time.Now()
	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusDelivered,
		ActorRole: domain.RoleDispatcher,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Trip.DeliveredAt.Before(before) {
		t.Error("expected DeliveredAt to be set at transition time")
	}
}

// ──────────────────────────────────────────────
// AUTHORIZATION
// ──────────────────────────────────────────────

func TestTransition_DriverMustBeBoundDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusInTransit, DriverID: "driver-1"})

	svc := newTripService(tripRepo, NewMockDriverRepository())

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusAtDestination,
		ActorRole: domain.RoleDriver,
		ActorID:   "driver-2",
	})
	if !errors.Is(err, service.ErrNotTripDriver) {
		t.Fatalf("expected ErrNotTripDriver, got %v", err)
	}
}

func TestTransition_DriverCannotCancel(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusInTransit, DriverID: "driver-1"})

	svc := newTripService(tripRepo, NewMockDriverRepository())

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusCancelled,
		ActorRole: domain.RoleDriver,
		ActorID:   "driver-1",
	})
	if !errors.Is(err, service.ErrForbiddenTransition) {
		t.Fatalf("expected ErrForbiddenTransition, got %v", err)
	}
}

func TestTransition_CustomerCanOnlyCancelEarly(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", Status: domain.TripStatusInTransit, DriverID: "driver-1"})

	svc := newTripService(tripRepo, NewMockDriverRepository())
	ctx := context.Background()

	// PENDING: cancellation allowed.
	if _, err := svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusCancelled,
		ActorRole: domain.RoleCustomer,
		ActorID:   "customer-1",
	}); err != nil {
		t.Fatalf("expected customer cancellation from PENDING to succeed, got %v", err)
	}

	// IN_TRANSIT: too late.
	_, err := svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusCancelled,
		ActorRole: domain.RoleCustomer,
		ActorID:   "customer-1",
	})
	if !errors.Is(err, service.ErrForbiddenTransition) {
		t.Fatalf("expected ErrForbiddenTransition, got %v", err)
	}

	// Customers never drive forward edges.
	_, err = svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusAtDestination,
		ActorRole: domain.RoleCustomer,
		ActorID:   "customer-1",
	})
	if !errors.Is(err, service.ErrForbiddenTransition) {
		t.Fatalf("expected ErrForbiddenTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// OPTIMISTIC CONCURRENCY
// ──────────────────────────────────────────────

func TestTransition_ConcurrentTransitionsExactlyOneWins(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, driverRepo)

	// Both goroutines race PENDING → ASSIGNED on the same version.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Transition(context.Background(), service.TransitionRequest{
				TripID:    "trip-1",
				NewStatus: domain.TripStatusAssigned,
				ActorRole: domain.RoleDispatcher,
				DriverID:  "driver-1",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var wins, stale int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrStaleTripVersion),
			errors.Is(err, service.ErrInvalidTransition),
			errors.Is(err, service.ErrDriverConflict):
			// The loser observes a stale version, the already-applied edge,
			// or the winner's fresh driver binding, depending on interleaving.
			stale++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d (errors: %v)", wins, errs)
	}
	if stale != 1 {
		t.Fatalf("expected exactly one loser, got %d (errors: %v)", stale, errs)
	}

	stored := tripRepo.GetTrip("trip-1")
	if stored.Status != domain.TripStatusAssigned {
		t.Errorf("expected final status ASSIGNED, got %s", stored.Status)
	}
	if stored.Version != 2 {
		t.Errorf("expected exactly one version bump, got version %d", stored.Version)
	}
}

func TestTransition_DriverLockHeldThroughCommit(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	lockStore := NewMockLockStore()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", Status: domain.TripStatusPending})

	svc := service.NewTripService(tripRepo, driverRepo, NewMockCityRepository(),
		nil, nil, lockStore, nil, nil)

	// Stall trip-1's commit so the second assignment arrives after the first
	// passed its conflict check but before its write landed.
	committing := make(chan struct{})
	resume := make(chan struct{})
	var once sync.Once
	tripRepo.BeforeUpdate = func(tripID string) {
		if tripID == "trip-1" {
			once.Do(func() {
				close(committing)
				<-resume
			})
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Transition(context.Background(), service.TransitionRequest{
			TripID:    "trip-1",
			NewStatus: domain.TripStatusAssigned,
			ActorRole: domain.RoleDispatcher,
			DriverID:  "driver-1",
		})
		done <- err
	}()

	<-committing

	// Mid-commit, the same driver cannot be bound to another trip: the
	// assignment lock is still held.
	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		TripID:    "trip-2",
		NewStatus: domain.TripStatusAssigned,
		ActorRole: domain.RoleDispatcher,
		DriverID:  "driver-1",
	})
	if !errors.Is(err, service.ErrDriverConflict) {
		t.Fatalf("expected ErrDriverConflict while the first assignment commits, got %v", err)
	}

	close(resume)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from the first assignment: %v", err)
	}

	var bound int
	for _, id := range []string{"trip-1", "trip-2"} {
		trip := tripRepo.GetTrip(id)
		if trip.DriverID == "driver-1" && trip.Status.IsActive() {
			bound++
		}
	}
	if bound != 1 {
		t.Fatalf("expected driver-1 bound to exactly 1 active trip, got %d", bound)
	}

	// The lock was released once the commit finished.
	locked, err := lockStore.AcquireDriverLock(context.Background(), "driver-1", time.Second)
	if err != nil || !locked {
		t.Fatalf("expected the assignment lock free after commit, got locked=%v err=%v", locked, err)
	}
}

// ──────────────────────────────────────────────
// SNAPSHOT CACHE
// ──────────────────────────────────────────────

func TestGetTrip_ReadsThroughSnapshotCache(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	cacheStore := NewMockCacheStore()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending, Price: 1000})

	svc := service.NewTripService(tripRepo, NewMockDriverRepository(), NewMockCityRepository(),
		nil, nil, nil, nil, cacheStore)
	ctx := context.Background()

	// First read misses and populates the cache.
	trip, err := svc.GetTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusPending {
		t.Errorf("expected PENDING, got %s", trip.Status)
	}
	if !cacheStore.HasTrip("trip-1") {
		t.Fatal("expected the trip cached after a read")
	}

	reads := tripRepo.GetByIDCallCount

	// Second read is served from the cache without touching Postgres.
	if _, err := svc.GetTrip(ctx, "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.GetByIDCallCount != reads {
		t.Errorf("expected a cache hit, repo reads went %d → %d", reads, tripRepo.GetByIDCallCount)
	}
}

func TestTransition_InvalidatesSnapshotCache(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	cacheStore := NewMockCacheStore()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending, Price: 1000})

	svc := service.NewTripService(tripRepo, NewMockDriverRepository(), NewMockCityRepository(),
		nil, nil, nil, nil, cacheStore)
	ctx := context.Background()

	// Populate the cache, then transition.
	if _, err := svc.GetTrip(ctx, "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Transition(ctx, service.TransitionRequest{
		TripID:    "trip-1",
		NewStatus: domain.TripStatusCancelled,
		ActorRole: domain.RoleDispatcher,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cacheStore.HasTrip("trip-1") {
		t.Error("expected the snapshot invalidated by the transition")
	}

	// The next read sees the post-transition status, not a stale snapshot.
	trip, err := svc.GetTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusCancelled {
		t.Errorf("expected CANCELLED after invalidation, got %s", trip.Status)
	}
}

// ──────────────────────────────────────────────
// DELETE
// ──────────────────────────────────────────────

func TestDeleteTrip_PendingOnlyAndDispatcherOnly(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", Status: domain.TripStatusPending})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", Status: domain.TripStatusInTransit, DriverID: "driver-1"})

	svc := newTripService(tripRepo, NewMockDriverRepository())
	ctx := context.Background()

	if err := svc.DeleteTrip(ctx, "trip-1", domain.RoleCustomer); !errors.Is(err, service.ErrForbiddenTransition) {
		t.Fatalf("expected ErrForbiddenTransition for customer delete, got %v", err)
	}

	if err := svc.DeleteTrip(ctx, "trip-2", domain.RoleDispatcher); !errors.Is(err, service.ErrTripNotPending) {
		t.Fatalf("expected ErrTripNotPending, got %v", err)
	}

	if err := svc.DeleteTrip(ctx, "trip-1", domain.RoleDispatcher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.CountTrips() != 1 {
		t.Errorf("expected 1 trip after delete, got %d", tripRepo.CountTrips())
	}
}

// ──────────────────────────────────────────────
// BOOKING
// ──────────────────────────────────────────────

func TestBookTrip_StartsPendingWithSequenceNo(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	cityRepo := NewMockCityRepository(domain.City{ID: "city-riyadh", Name: "Riyadh", Lat: 24.7136, Lng: 46.6753})

	svc := service.NewTripService(tripRepo, NewMockDriverRepository(), cityRepo,
		nil, service.NewGeoService(cityRepo), nil, nil, nil)

	trip, err := svc.BookTrip(context.Background(), service.BookTripRequest{
		CustomerID:    "customer-1",
		VehicleTypeID: "vt-flatbed",
		TemperatureID: "temp-ambient",
		Origin:        domain.TripEndpoint{CityID: "city-riyadh"},
		Destination:   domain.TripEndpoint{Lat: 21.5, Lng: 39.2, HasGeo: true},
		Price:         1500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusPending {
		t.Errorf("expected status PENDING, got %s", trip.Status)
	}
	if trip.SequenceNo != "FT-000001" {
		t.Errorf("expected sequence FT-000001, got %s", trip.SequenceNo)
	}
	if trip.Currency != "SAR" {
		t.Errorf("expected default currency SAR, got %s", trip.Currency)
	}
	// A coordinate-only destination gets annotated with the nearest city.
	if trip.Destination.CityID != "city-riyadh" {
		t.Errorf("expected destination annotated with city-riyadh, got %q", trip.Destination.CityID)
	}
}

func TestBookTrip_RejectsIncompleteRequests(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	cityRepo := NewMockCityRepository(domain.City{ID: "city-riyadh", Name: "Riyadh", Lat: 24.7136, Lng: 46.6753})
	svc := service.NewTripService(tripRepo, NewMockDriverRepository(), cityRepo,
		nil, service.NewGeoService(cityRepo), nil, nil, nil)

	valid := service.BookTripRequest{
		CustomerID:    "customer-1",
		VehicleTypeID: "vt-flatbed",
		TemperatureID: "temp-ambient",
		Origin:        domain.TripEndpoint{CityID: "city-riyadh"},
		Destination:   domain.TripEndpoint{CityID: "city-riyadh"},
		Price:         1500,
	}

	cases := []struct {
		name    string
		mutate  func(*service.BookTripRequest)
		wantErr error
	}{
		{"missing vehicle type", func(r *service.BookTripRequest) { r.VehicleTypeID = "" }, service.ErrVehicleTypeRequired},
		{"missing temperature", func(r *service.BookTripRequest) { r.TemperatureID = "" }, service.ErrTemperatureRequired},
		{"zero price", func(r *service.BookTripRequest) { r.Price = 0 }, service.ErrInvalidPrice},
		{"negative price", func(r *service.BookTripRequest) { r.Price = -10 }, service.ErrInvalidPrice},
		{"unresolved origin", func(r *service.BookTripRequest) { r.Origin = domain.TripEndpoint{} }, service.ErrUnresolvedEndpoint},
		{"out-of-range coordinate", func(r *service.BookTripRequest) {
			r.Origin = domain.TripEndpoint{Lat: 91, Lng: 0, HasGeo: true}
		}, service.ErrInvalidCoordinate},
	}

	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		if _, err := svc.BookTrip(context.Background(), req); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}

	if tripRepo.CountTrips() != 0 {
		t.Errorf("expected no trips persisted, got %d", tripRepo.CountTrips())
	}
}
