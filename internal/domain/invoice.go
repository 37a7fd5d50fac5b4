package domain

import "time"

// InvoiceStatus represents the billing progression of an invoice. It advances
// independently of the trip lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
	InvoiceStatusVoid   InvoiceStatus = "VOID"
)

// Invoice is the financial document derived from a delivered trip.
// At most one invoice exists per trip.
type Invoice struct {
	ID            string
	TripID        string
	SequenceNo    string
	Subtotal      float64
	TaxAmount     float64
	CustomsAmount float64
	Total         float64
	Currency      string
	Status        InvoiceStatus
	DueDate       time.Time
	CreatedAt     time.Time
}
