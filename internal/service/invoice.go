package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"freight/internal/config"
	"freight/internal/domain"
	"freight/internal/repository"
)

// InvoiceService derives the financial document for delivered trips.
// Generation is idempotent: however many times the hook fires for a trip,
// exactly one invoice exists afterward.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	tripRepo    repository.TripRepository
	billing     config.BillingConfig
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	tripRepo repository.TripRepository,
	billing config.BillingConfig,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		tripRepo:    tripRepo,
		billing:     billing,
	}
}

// GenerateForDeliveredTrip creates the invoice for a delivered trip, or
// returns the existing one. Calling it for a trip that is not DELIVERED is a
// programming error: generation is only reachable through the delivered
// transition hook.
func (s *InvoiceService) GenerateForDeliveredTrip(ctx context.Context, tripID string) (*domain.Invoice, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusDelivered {
		log.Printf("BUG: invoice generation invoked for trip %s in status %s", trip.ID, trip.Status)
		return nil, ErrTripNotDelivered
	}

	// Fast path for retried delivery events.
	existing, err := s.invoiceRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	subtotal := trip.Price
	taxAmount := subtotal * s.billing.TaxRate
	customsAmount := subtotal * s.billing.CustomsRate

	invoice := &domain.Invoice{
		ID:            uuid.New().String(),
		TripID:        trip.ID,
		SequenceNo:    "INV-" + trip.SequenceNo,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		CustomsAmount: customsAmount,
		Total:         subtotal + taxAmount + customsAmount,
		Currency:      trip.Currency,
		Status:        domain.InvoiceStatusDraft,
		DueDate:       trip.DeliveredAt.AddDate(0, 0, s.billing.PaymentTermDays),
		CreatedAt:     time.Now(),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent retry; the winner's row stands.
			return s.invoiceRepo.GetByTripID(ctx, tripID)
		}
		return nil, err
	}

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// GetInvoiceForTrip retrieves the invoice for a trip, or nil when none exists.
func (s *InvoiceService) GetInvoiceForTrip(ctx context.Context, tripID string) (*domain.Invoice, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.invoiceRepo.GetByTripID(ctx, tripID)
}
