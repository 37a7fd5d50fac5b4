package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight/internal/domain"
	"freight/internal/service"
)

func trackedTrip(id, driverID string) *domain.Trip {
	return &domain.Trip{
		ID:       id,
		Status:   domain.TripStatusInTransit,
		DriverID: driverID,
	}
}

func trackingDriver(id string) *domain.Driver {
	return &domain.Driver{ID: id, Active: true, TrackingEnabled: true}
}

// ──────────────────────────────────────────────
// INGESTION
// ──────────────────────────────────────────────

func TestIngest_AcceptsSampleForTrackedTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	sampleRepo := NewMockGeoSampleRepository()
	locationStore := NewMockLocationStore()

	tripRepo.AddTrip(trackedTrip("trip-1", "driver-1"))
	driverRepo.AddDriver(trackingDriver("driver-1"))

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, locationStore)

	sampleID, err := svc.Ingest(context.Background(), service.IngestRequest{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Lat:      24.7136,
		Lng:      46.6753,
		SpeedKmh: 80,
		HasSpeed: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sampleID == "" {
		t.Fatal("expected a sample ID")
	}

	if sampleRepo.CountSamples("trip-1") != 1 {
		t.Errorf("expected 1 persisted sample, got %d", sampleRepo.CountSamples("trip-1"))
	}

	// The cache saw the write too.
	cached, err := locationStore.GetLatest(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached == nil || cached.ID != sampleID {
		t.Error("expected the ingested sample in the cache")
	}
}

func TestIngest_CoordinateValidation(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	sampleRepo := NewMockGeoSampleRepository()

	tripRepo.AddTrip(trackedTrip("trip-1", "driver-1"))
	driverRepo.AddDriver(trackingDriver("driver-1"))

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, nil)

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat above range", 90.1, 0},
		{"lat below range", -90.1, 0},
		{"lng above range", 0, 180.1},
		{"lng below range", 0, -180.1},
	}

	for _, tc := range cases {
		_, err := svc.Ingest(context.Background(), service.IngestRequest{
			TripID:   "trip-1",
			DriverID: "driver-1",
			Lat:      tc.lat,
			Lng:      tc.lng,
		})
		if !errors.Is(err, service.ErrInvalidCoordinate) {
			t.Errorf("%s: expected ErrInvalidCoordinate, got %v", tc.name, err)
		}
	}

	// Boundary values are valid.
	if _, err := svc.Ingest(context.Background(), service.IngestRequest{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Lat:      -90,
		Lng:      180,
	}); err != nil {
		t.Errorf("boundary coordinate rejected: %v", err)
	}

	if sampleRepo.CountSamples("trip-1") != 1 {
		t.Errorf("expected only the boundary sample persisted, got %d", sampleRepo.CountSamples("trip-1"))
	}
}

func TestIngest_RejectedOutsideTrackedStatuses(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	sampleRepo := NewMockGeoSampleRepository()
	driverRepo.AddDriver(trackingDriver("driver-1"))

	for i, status := range []domain.TripStatus{
		domain.TripStatusPending,
		domain.TripStatusDriverRequested,
		domain.TripStatusDriverAccepted,
		domain.TripStatusDelivered,
		domain.TripStatusCancelled,
	} {
		id := "trip-" + string(rune('a'+i))
		tripRepo.AddTrip(&domain.Trip{ID: id, Status: status, DriverID: "driver-1"})
	}

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, nil)

	for _, id := range []string{"trip-a", "trip-b", "trip-c", "trip-d", "trip-e"} {
		_, err := svc.Ingest(context.Background(), service.IngestRequest{
			TripID:   id,
			DriverID: "driver-1",
			Lat:      24.7,
			Lng:      46.7,
		})
		if !errors.Is(err, service.ErrTrackingNotActive) {
			t.Errorf("trip %s: expected ErrTrackingNotActive, got %v", id, err)
		}
	}
}

func TestIngest_RejectsWrongDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	sampleRepo := NewMockGeoSampleRepository()

	tripRepo.AddTrip(trackedTrip("trip-1", "driver-1"))
	driverRepo.AddDriver(trackingDriver("driver-1"))
	driverRepo.AddDriver(trackingDriver("driver-2"))

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, nil)

	_, err := svc.Ingest(context.Background(), service.IngestRequest{
		TripID:   "trip-1",
		DriverID: "driver-2",
		Lat:      24.7,
		Lng:      46.7,
	})
	if !errors.Is(err, service.ErrNotTripDriver) {
		t.Fatalf("expected ErrNotTripDriver, got %v", err)
	}
}

func TestIngest_RejectsTrackingDisabledDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	sampleRepo := NewMockGeoSampleRepository()

	tripRepo.AddTrip(trackedTrip("trip-1", "driver-1"))
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Active: true, TrackingEnabled: false})

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, nil)

	_, err := svc.Ingest(context.Background(), service.IngestRequest{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Lat:      24.7,
		Lng:      46.7,
	})
	if !errors.Is(err, service.ErrTrackingNotActive) {
		t.Fatalf("expected ErrTrackingNotActive, got %v", err)
	}
}

// ──────────────────────────────────────────────
// READ PATH
// ──────────────────────────────────────────────

func TestLatest_ReturnsMaxServerReceiveTime(t *testing.T) {
	t.Parallel()

	sampleRepo := NewMockGeoSampleRepository()
	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// Appended out of order relative to their receive times.
	for i, offset := range []time.Duration{2 * time.Second, 10 * time.Second, 5 * time.Second} {
		sampleRepo.Create(context.Background(), &domain.GeoSample{
			ID:               "sample-" + string(rune('a'+i)),
			TripID:           "trip-1",
			DriverID:         "driver-1",
			Lat:              24.7,
			Lng:              46.7,
			ServerReceivedAt: base.Add(offset),
		})
	}

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, nil)

	latest, err := svc.Latest(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a latest sample")
	}
	if latest.ID != "sample-b" {
		t.Errorf("expected sample-b (max receive time), got %s", latest.ID)
	}
}

func TestLatest_NilWhenNoSamples(t *testing.T) {
	t.Parallel()

	svc := service.NewTrackingService(NewMockGeoSampleRepository(), NewMockTripRepository(), NewMockDriverRepository(), nil)

	latest, err := svc.Latest(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil, got %+v", latest)
	}
}

func TestHistory_MostRecentFirstWithPaging(t *testing.T) {
	t.Parallel()

	sampleRepo := NewMockGeoSampleRepository()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		sampleRepo.Create(context.Background(), &domain.GeoSample{
			ID:               "sample-" + string(rune('a'+i)),
			TripID:           "trip-1",
			ServerReceivedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	svc := service.NewTrackingService(sampleRepo, NewMockTripRepository(), NewMockDriverRepository(), nil)

	page, err := svc.History(context.Background(), "trip-1", 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(page))
	}
	if page[0].ID != "sample-j" || page[2].ID != "sample-h" {
		t.Errorf("expected most-recent-first ordering, got %s..%s", page[0].ID, page[2].ID)
	}

	// Restart from the offset.
	next, err := svc.History(context.Background(), "trip-1", 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next[0].ID != "sample-g" {
		t.Errorf("expected sample-g at offset 3, got %s", next[0].ID)
	}

	// Offset past the end yields an empty page, not an error.
	empty, err := svc.History(context.Background(), "trip-1", 3, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page, got %d samples", len(empty))
	}
}

func TestIngest_OlderRetransmitDoesNotClobberCache(t *testing.T) {
	t.Parallel()

	locationStore := NewMockLocationStore()
	sampleRepo := NewMockGeoSampleRepository()
	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()

	tripRepo.AddTrip(trackedTrip("trip-1", "driver-1"))
	driverRepo.AddDriver(trackingDriver("driver-1"))

	// Seed a cached sample received in the future relative to the next ingest.
	newer := &domain.GeoSample{
		ID:               "sample-newer",
		TripID:           "trip-1",
		DriverID:         "driver-1",
		Lat:              25,
		Lng:              47,
		ServerReceivedAt: time.Now().Add(time.Hour),
	}
	locationStore.SetLatest(context.Background(), newer)

	svc := service.NewTrackingService(sampleRepo, tripRepo, driverRepo, locationStore)

	if _, err := svc.Ingest(context.Background(), service.IngestRequest{
		TripID:   "trip-1",
		DriverID: "driver-1",
		Lat:      24.7,
		Lng:      46.7,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Persisted to Postgres regardless, but the cache kept the newer entry.
	if sampleRepo.CountSamples("trip-1") != 1 {
		t.Errorf("expected sample persisted, got %d", sampleRepo.CountSamples("trip-1"))
	}
	cached, _ := locationStore.GetLatest(context.Background(), "trip-1")
	if cached == nil || cached.ID != "sample-newer" {
		t.Error("expected the newer cached sample to survive an older retransmit")
	}
}

// ──────────────────────────────────────────────
// FLEET VIEW
// ──────────────────────────────────────────────

func TestFleetPositions_FiltersByRadius(t *testing.T) {
	t.Parallel()

	locationStore := NewMockLocationStore()
	ctx := context.Background()

	locationStore.SetLatest(ctx, &domain.GeoSample{
		TripID: "trip-1", DriverID: "driver-near", Lat: 24.72, Lng: 46.68,
	})
	locationStore.SetLatest(ctx, &domain.GeoSample{
		TripID: "trip-2", DriverID: "driver-far", Lat: 21.39, Lng: 39.86,
	})

	svc := service.NewTrackingService(NewMockGeoSampleRepository(), NewMockTripRepository(), NewMockDriverRepository(), locationStore)

	positions, err := svc.FleetPositions(ctx, 24.7136, 46.6753, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position within 50km, got %d", len(positions))
	}
	if positions[0].DriverID != "driver-near" {
		t.Errorf("expected driver-near, got %s", positions[0].DriverID)
	}
}
