package repository

import (
	"context"

	"freight/internal/domain"
)

// InvoiceRepository defines the persistence operations for invoices.
type InvoiceRepository interface {
	// Create persists a new invoice. The trip_id column is unique; a second
	// insert for the same trip returns ErrDuplicate.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByID retrieves an invoice by ID.
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)

	// GetByTripID retrieves the invoice for a trip, or nil when none exists.
	GetByTripID(ctx context.Context, tripID string) (*domain.Invoice, error)
}
