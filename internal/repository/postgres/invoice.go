package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"freight/internal/domain"
	"freight/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// InvoiceRepository is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoiceRepository struct {
	q Querier
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{q: db}
}

// NewInvoiceRepositoryWithTx creates an invoice repository using a transaction.
func NewInvoiceRepositoryWithTx(tx *sql.Tx) *InvoiceRepository {
	return &InvoiceRepository{q: tx}
}

const invoiceColumns = `
	id, trip_id, sequence_no, subtotal, tax_amount, customs_amount, total,
	currency, status, due_date, created_at
`

// Create persists a new invoice. The trips unique index on trip_id makes a
// duplicate insert surface as ErrDuplicate, which the generator treats as
// "already exists" and resolves by re-reading.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		invoice.ID,
		invoice.TripID,
		invoice.SequenceNo,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.CustomsAmount,
		invoice.Total,
		invoice.Currency,
		invoice.Status,
		invoice.DueDate,
		invoice.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	invoice, err := scanInvoice(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return invoice, nil
}

// GetByTripID retrieves the invoice for a trip. Returns nil if none exists.
func (r *InvoiceRepository) GetByTripID(ctx context.Context, tripID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE trip_id = $1`

	invoice, err := scanInvoice(r.q.QueryRowContext(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return invoice, nil
}

func scanInvoice(s scanner) (*domain.Invoice, error) {
	var invoice domain.Invoice

	err := s.Scan(
		&invoice.ID,
		&invoice.TripID,
		&invoice.SequenceNo,
		&invoice.Subtotal,
		&invoice.TaxAmount,
		&invoice.CustomsAmount,
		&invoice.Total,
		&invoice.Currency,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}

// Ensure InvoiceRepository implements repository.InvoiceRepository.
var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)
