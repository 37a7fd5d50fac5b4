package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/domain"
	"freight/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService        *service.TripService
	invoiceService     *service.InvoiceService
	cancellationPolicy *service.CancellationPolicy
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(
	tripService *service.TripService,
	invoiceService *service.InvoiceService,
	cancellationPolicy *service.CancellationPolicy,
) *TripHandler {
	return &TripHandler{
		tripService:        tripService,
		invoiceService:     invoiceService,
		cancellationPolicy: cancellationPolicy,
	}
}

// EndpointRequest is one end of the route in a booking request.
type EndpointRequest struct {
	CityID  string   `json:"city_id"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

func (e EndpointRequest) toDomain() domain.TripEndpoint {
	ep := domain.TripEndpoint{CityID: e.CityID, Address: e.Address}
	if e.Lat != nil && e.Lng != nil {
		ep.Lat = *e.Lat
		ep.Lng = *e.Lng
		ep.HasGeo = true
	}
	return ep
}

// BookTripRequest is the HTTP request body for creating a trip.
type BookTripRequest struct {
	CustomerID    string          `json:"customer_id"`
	VehicleTypeID string          `json:"vehicle_type_id"`
	TemperatureID string          `json:"temperature_id"`
	BrokerID      string          `json:"broker_id"`
	Origin        EndpointRequest `json:"origin"`
	Destination   EndpointRequest `json:"destination"`
	CargoNotes    string          `json:"cargo_notes"`
	CargoWeightKg float64         `json:"cargo_weight_kg"`
	Price         float64         `json:"price"`
	Currency      string          `json:"currency"`
	ScheduledAt   string          `json:"scheduled_at"`
}

// TransitionRequest is the HTTP request body for a status transition.
type TransitionRequest struct {
	NewStatus string `json:"new_status"`
	ActorRole string `json:"actor_role"`
	ActorID   string `json:"actor_id"`
	DriverID  string `json:"driver_id"`
	Override  bool   `json:"override"`
}

// EndpointResponse mirrors EndpointRequest in responses.
type EndpointResponse struct {
	CityID  string   `json:"city_id,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address,omitempty"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID        string           `json:"trip_id"`
	SequenceNo    string           `json:"sequence_no"`
	CustomerID    string           `json:"customer_id"`
	DriverID      string           `json:"driver_id,omitempty"`
	VehicleTypeID string           `json:"vehicle_type_id"`
	TemperatureID string           `json:"temperature_id"`
	BrokerID      string           `json:"broker_id,omitempty"`
	Origin        EndpointResponse `json:"origin"`
	Destination   EndpointResponse `json:"destination"`
	CargoNotes    string           `json:"cargo_notes,omitempty"`
	CargoWeightKg float64          `json:"cargo_weight_kg,omitempty"`
	Price         float64          `json:"price"`
	Currency      string           `json:"currency"`
	Status        string           `json:"status"`
	Version       int64            `json:"version"`
	CreatedAt     string           `json:"created_at"`
	ScheduledAt   string           `json:"scheduled_at,omitempty"`
	ActualStartAt string           `json:"actual_start_at,omitempty"`
	DeliveredAt   string           `json:"delivered_at,omitempty"`
	Invoice       *InvoiceResponse `json:"invoice,omitempty"`
}

// CancellationQuoteResponse is the HTTP response for a cancellation quote.
type CancellationQuoteResponse struct {
	IsFree           bool    `json:"is_free"`
	FeeAmount        float64 `json:"fee_amount"`
	Currency         string  `json:"currency"`
	MinutesRemaining int     `json:"minutes_remaining"`
}

func tripToResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		TripID:        trip.ID,
		SequenceNo:    trip.SequenceNo,
		CustomerID:    trip.CustomerID,
		DriverID:      trip.DriverID,
		VehicleTypeID: trip.VehicleTypeID,
		TemperatureID: trip.TemperatureID,
		BrokerID:      trip.BrokerID,
		Origin:        endpointToResponse(trip.Origin),
		Destination:   endpointToResponse(trip.Destination),
		CargoNotes:    trip.CargoNotes,
		CargoWeightKg: trip.CargoWeightKg,
		Price:         trip.Price,
		Currency:      trip.Currency,
		Status:        string(trip.Status),
		Version:       trip.Version,
		CreatedAt:     trip.CreatedAt.Format(time.RFC3339),
	}
	if !trip.ScheduledAt.IsZero() {
		resp.ScheduledAt = trip.ScheduledAt.Format(time.RFC3339)
	}
	if !trip.ActualStartAt.IsZero() {
		resp.ActualStartAt = trip.ActualStartAt.Format(time.RFC3339)
	}
	if !trip.DeliveredAt.IsZero() {
		resp.DeliveredAt = trip.DeliveredAt.Format(time.RFC3339)
	}
	return resp
}

func endpointToResponse(e domain.TripEndpoint) EndpointResponse {
	resp := EndpointResponse{CityID: e.CityID, Address: e.Address}
	if e.HasGeo {
		lat, lng := e.Lat, e.Lng
		resp.Lat = &lat
		resp.Lng = &lng
	}
	return resp
}

// Book handles POST /v1/trips
func (h *TripHandler) Book(c *gin.Context) {
	var req BookTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid request body"})
		return
	}

	bookReq := service.BookTripRequest{
		CustomerID:    req.CustomerID,
		VehicleTypeID: req.VehicleTypeID,
		TemperatureID: req.TemperatureID,
		BrokerID:      req.BrokerID,
		Origin:        req.Origin.toDomain(),
		Destination:   req.Destination.toDomain(),
		CargoNotes:    req.CargoNotes,
		CargoWeightKg: req.CargoWeightKg,
		Price:         req.Price,
		Currency:      req.Currency,
	}
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid scheduled_at"})
			return
		}
		bookReq.ScheduledAt = t
	}

	trip, err := h.tripService.BookTrip(c.Request.Context(), bookReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripToResponse(trip))
}

// Transition handles POST /v1/trips/:id/transition
func (h *TripHandler) Transition(c *gin.Context) {
	tripID := c.Param("id")

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid request body"})
		return
	}

	result, err := h.tripService.Transition(c.Request.Context(), service.TransitionRequest{
		TripID:    tripID,
		NewStatus: domain.TripStatus(req.NewStatus),
		ActorRole: domain.ActorRole(req.ActorRole),
		ActorID:   req.ActorID,
		DriverID:  req.DriverID,
		Override:  req.Override,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := tripToResponse(result.Trip)
	if result.Invoice != nil {
		inv := invoiceToResponse(result.Invoice)
		resp.Invoice = &inv
	}

	respondJSON(c, http.StatusOK, resp)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripToResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips, err := h.tripService.GetAllTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripToResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// Delete handles DELETE /v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	role := domain.ActorRole(c.GetHeader("X-Actor-Role"))

	if err := h.tripService.DeleteTrip(c.Request.Context(), c.Param("id"), role); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CancellationQuote handles GET /v1/trips/:id/cancellation-quote
func (h *TripHandler) CancellationQuote(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := h.cancellationPolicy.Quote(trip, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CancellationQuoteResponse{
		IsFree:           quote.IsFree,
		FeeAmount:        quote.FeeAmount,
		Currency:         quote.Currency,
		MinutesRemaining: quote.MinutesRemaining,
	})
}

// CreateInvoice handles POST /v1/trips/:id/invoice — the internal seam the
// state machine calls, exposed for idempotent retries.
func (h *TripHandler) CreateInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GenerateForDeliveredTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, invoiceToResponse(invoice))
}
