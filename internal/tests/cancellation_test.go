package tests

import (
	"errors"
	"math"
	"testing"
	"time"

	"freight/internal/config"
	"freight/internal/domain"
	"freight/internal/service"
)

func testCancellation() config.CancellationConfig {
	return config.CancellationConfig{
		FreeWindowMinutes: 15,
		FeePercentage:     0.10,
	}
}

// ──────────────────────────────────────────────
// CANCELLATION QUOTES
// ──────────────────────────────────────────────

func TestCancellationQuote_InsideFreeWindow(t *testing.T) {
	t.Parallel()

	policy := service.NewCancellationPolicy(testCancellation())

	createdAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trip := &domain.Trip{
		ID:        "trip-1",
		Status:    domain.TripStatusPending,
		Price:     1000,
		Currency:  "SAR",
		CreatedAt: createdAt,
	}

	// 10 minutes in: free, 5 minutes left in the window.
	quote, err := policy.Quote(trip, createdAt.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.IsFree {
		t.Error("expected a free cancellation inside the window")
	}
	if quote.FeeAmount != 0 {
		t.Errorf("expected zero fee, got %v", quote.FeeAmount)
	}
	if quote.MinutesRemaining != 5 {
		t.Errorf("expected 5 minutes remaining, got %d", quote.MinutesRemaining)
	}
	if quote.Currency != "SAR" {
		t.Errorf("expected currency SAR, got %s", quote.Currency)
	}
}

func TestCancellationQuote_AfterFreeWindow(t *testing.T) {
	t.Parallel()

	policy := service.NewCancellationPolicy(testCancellation())

	createdAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trip := &domain.Trip{
		ID:        "trip-1",
		Status:    domain.TripStatusAssigned,
		Price:     1000,
		Currency:  "SAR",
		CreatedAt: createdAt,
	}

	// 20 minutes in: 10% of the price is due.
	quote, err := policy.Quote(trip, createdAt.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.IsFree {
		t.Error("expected a paid cancellation after the window")
	}
	if math.Abs(quote.FeeAmount-100) > 1e-9 {
		t.Errorf("expected fee 100, got %v", quote.FeeAmount)
	}
	if quote.MinutesRemaining != 0 {
		t.Errorf("expected 0 minutes remaining, got %d", quote.MinutesRemaining)
	}
}

func TestCancellationQuote_WindowBoundaryIsFree(t *testing.T) {
	t.Parallel()

	policy := service.NewCancellationPolicy(testCancellation())

	createdAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trip := &domain.Trip{
		Status:    domain.TripStatusPending,
		Price:     1000,
		Currency:  "SAR",
		CreatedAt: createdAt,
	}

	quote, err := policy.Quote(trip, createdAt.Add(15*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.IsFree {
		t.Error("expected the window boundary itself to be free")
	}
}

func TestCancellationQuote_StatusRestriction(t *testing.T) {
	t.Parallel()

	policy := service.NewCancellationPolicy(testCancellation())
	now := time.Now()

	for _, status := range []domain.TripStatus{
		domain.TripStatusDriverRequested,
		domain.TripStatusDriverAccepted,
		domain.TripStatusInTransit,
		domain.TripStatusDelivered,
		domain.TripStatusCancelled,
	} {
		trip := &domain.Trip{Status: status, Price: 1000, CreatedAt: now}
		if _, err := policy.Quote(trip, now); !errors.Is(err, service.ErrNotCancellable) {
			t.Errorf("status %s: expected ErrNotCancellable, got %v", status, err)
		}
	}

	for _, status := range []domain.TripStatus{
		domain.TripStatusPending,
		domain.TripStatusAssigned,
	} {
		trip := &domain.Trip{Status: status, Price: 1000, CreatedAt: now}
		if _, err := policy.Quote(trip, now); err != nil {
			t.Errorf("status %s: unexpected error: %v", status, err)
		}
	}
}
