package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"freight/internal/domain"
	"freight/internal/service"
)

// TrackingHandler handles HTTP requests for location tracking.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// GeoSampleRequest is the HTTP request body for posting a location sample.
type GeoSampleRequest struct {
	DriverID string   `json:"driver_id"`
	Lat      float64  `json:"latitude"`
	Lng      float64  `json:"longitude"`
	SpeedKmh *float64 `json:"speed,omitempty"`
	Heading  *float64 `json:"heading,omitempty"`
}

// GeoSampleResponse is the HTTP response for a stored sample.
type GeoSampleResponse struct {
	ID               string   `json:"id"`
	TripID           string   `json:"trip_id"`
	DriverID         string   `json:"driver_id"`
	Lat              float64  `json:"latitude"`
	Lng              float64  `json:"longitude"`
	SpeedKmh         *float64 `json:"speed,omitempty"`
	Heading          *float64 `json:"heading,omitempty"`
	ServerReceivedAt string   `json:"server_received_at"`
}

func sampleToResponse(sample *domain.GeoSample) GeoSampleResponse {
	resp := GeoSampleResponse{
		ID:               sample.ID,
		TripID:           sample.TripID,
		DriverID:         sample.DriverID,
		Lat:              sample.Lat,
		Lng:              sample.Lng,
		ServerReceivedAt: sample.ServerReceivedAt.Format(time.RFC3339Nano),
	}
	if sample.HasSpeed {
		v := sample.SpeedKmh
		resp.SpeedKmh = &v
	}
	if sample.HasHeading {
		v := sample.Heading
		resp.Heading = &v
	}
	return resp
}

// Ingest handles POST /v1/trips/:id/location
func (h *TrackingHandler) Ingest(c *gin.Context) {
	tripID := c.Param("id")

	var req GeoSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid request body"})
		return
	}

	ingestReq := service.IngestRequest{
		TripID:   tripID,
		DriverID: req.DriverID,
		Lat:      req.Lat,
		Lng:      req.Lng,
	}
	if req.SpeedKmh != nil {
		ingestReq.SpeedKmh = *req.SpeedKmh
		ingestReq.HasSpeed = true
	}
	if req.Heading != nil {
		ingestReq.Heading = *req.Heading
		ingestReq.HasHeading = true
	}

	sampleID, err := h.trackingService.Ingest(c.Request.Context(), ingestReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"accepted": true, "sample_id": sampleID})
}

// Latest handles GET /v1/trips/:id/location
func (h *TrackingHandler) Latest(c *gin.Context) {
	sample, err := h.trackingService.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if sample == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NotFound", Message: "no location reported yet"})
		return
	}

	respondJSON(c, http.StatusOK, sampleToResponse(sample))
}

// History handles GET /v1/trips/:id/location/history
func (h *TrackingHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	samples, err := h.trackingService.History(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]GeoSampleResponse, 0, len(samples))
	for _, sample := range samples {
		response = append(response, sampleToResponse(sample))
	}

	respondJSON(c, http.StatusOK, response)
}

// FleetPositions handles GET /v1/fleet/positions
func (h *TrackingHandler) FleetPositions(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid lng"})
		return
	}
	radiusKm, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "100"), 64)
	if err != nil || radiusKm <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid radius_km"})
		return
	}

	positions, err := h.trackingService.FleetPositions(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	type positionResponse struct {
		DriverID string  `json:"driver_id"`
		Lat      float64 `json:"latitude"`
		Lng      float64 `json:"longitude"`
	}
	response := make([]positionResponse, 0, len(positions))
	for _, p := range positions {
		response = append(response, positionResponse{DriverID: p.DriverID, Lat: p.Lat, Lng: p.Lng})
	}

	respondJSON(c, http.StatusOK, response)
}
