package service

import (
	"time"

	"freight/internal/config"
	"freight/internal/domain"
)

// CancellationPolicy evaluates the time-windowed cancellation fee. It is a
// pure function of the trip's creation time, the clock, and configuration.
type CancellationPolicy struct {
	cfg config.CancellationConfig
}

// NewCancellationPolicy creates a new CancellationPolicy.
func NewCancellationPolicy(cfg config.CancellationConfig) *CancellationPolicy {
	return &CancellationPolicy{cfg: cfg}
}

// Quote answers what cancelling the trip costs at the given instant.
// Only PENDING and ASSIGNED trips are cancellable through this path; the
// elapsed-time rule is bounded by status, never status alone.
func (p *CancellationPolicy) Quote(trip *domain.Trip, now time.Time) (*domain.CancellationQuote, error) {
	if trip.Status != domain.TripStatusPending && trip.Status != domain.TripStatusAssigned {
		return nil, ErrNotCancellable
	}

	window := time.Duration(p.cfg.FreeWindowMinutes) * time.Minute
	elapsed := now.Sub(trip.CreatedAt)

	quote := &domain.CancellationQuote{Currency: trip.Currency}

	if elapsed <= window {
		quote.IsFree = true
		quote.MinutesRemaining = int((window - elapsed).Minutes())
	} else {
		quote.FeeAmount = trip.Price * p.cfg.FeePercentage
	}

	return quote, nil
}
