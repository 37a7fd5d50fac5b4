package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/repository"
	"freight/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	matchingService *service.MatchingService
	driverRepo      repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(matchingService *service.MatchingService, driverRepo repository.DriverRepository) *DriverHandler {
	return &DriverHandler{
		matchingService: matchingService,
		driverRepo:      driverRepo,
	}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	VehicleTypeIDs []string `json:"vehicle_type_ids"`
	TemperatureIDs []string `json:"temperature_ids"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	Active          bool     `json:"active"`
	TrackingEnabled bool     `json:"tracking_enabled"`
	VehicleTypeIDs  []string `json:"vehicle_type_ids"`
	TemperatureIDs  []string `json:"temperature_ids"`
}

// AvailableDriverResponse is one matcher result.
type AvailableDriverResponse struct {
	DriverResponse
	HasActiveTrip bool `json:"has_active_trip"`
}

func driverToResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:              d.ID,
		Name:            d.Name,
		Phone:           d.Phone,
		Active:          d.Active,
		TrackingEnabled: d.TrackingEnabled,
		VehicleTypeIDs:  d.VehicleTypeIDs,
		TemperatureIDs:  d.TemperatureIDs,
	}
}

// Register handles POST /v1/drivers
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "name and phone are required"})
		return
	}

	existing, err := h.driverRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "driver already registered",
			"driver":  driverToResponse(existing),
		})
		return
	}

	driver := &domain.Driver{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Phone:           req.Phone,
		Active:          true,
		TrackingEnabled: true,
		VehicleTypeIDs:  req.VehicleTypeIDs,
		TemperatureIDs:  req.TemperatureIDs,
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, driverToResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, driverToResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// Available handles GET /v1/drivers/available
func (h *DriverHandler) Available(c *gin.Context) {
	vehicleTypeID := c.Query("vehicle_type_id")
	temperatureID := c.Query("temperature_id")

	matches, err := h.matchingService.FindAvailable(c.Request.Context(), vehicleTypeID, temperatureID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AvailableDriverResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, AvailableDriverResponse{
			DriverResponse: driverToResponse(m.Driver),
			HasActiveTrip:  m.HasActiveTrip,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// SetTracking handles POST /v1/drivers/:id/tracking
func (h *DriverHandler) SetTracking(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BadRequest", Message: "invalid request body"})
		return
	}

	if err := h.driverRepo.SetTrackingEnabled(c.Request.Context(), c.Param("id"), req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
