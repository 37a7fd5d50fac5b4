package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/domain"
	"freight/internal/service"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceResponse is the HTTP response for invoice data.
type InvoiceResponse struct {
	ID            string  `json:"id"`
	TripID        string  `json:"trip_id"`
	SequenceNo    string  `json:"sequence_no"`
	Subtotal      float64 `json:"subtotal"`
	TaxAmount     float64 `json:"tax_amount"`
	CustomsAmount float64 `json:"customs_amount"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	DueDate       string  `json:"due_date"`
	CreatedAt     string  `json:"created_at"`
}

func invoiceToResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		TripID:        invoice.TripID,
		SequenceNo:    invoice.SequenceNo,
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		CustomsAmount: invoice.CustomsAmount,
		Total:         invoice.Total,
		Currency:      invoice.Currency,
		Status:        string(invoice.Status),
		DueDate:       invoice.DueDate.Format(time.RFC3339),
		CreatedAt:     invoice.CreatedAt.Format(time.RFC3339),
	}
}

// GetInvoice handles GET /v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, invoiceToResponse(invoice))
}
