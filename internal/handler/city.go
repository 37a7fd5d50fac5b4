package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"freight/internal/service"
)

// CityHandler handles HTTP requests for the city catalogue.
type CityHandler struct {
	geoService *service.GeoService
}

// NewCityHandler creates a new CityHandler.
func NewCityHandler(geoService *service.GeoService) *CityHandler {
	return &CityHandler{geoService: geoService}
}

// CityResponse is the HTTP response for city data.
type CityResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// GetAll handles GET /v1/cities
func (h *CityHandler) GetAll(c *gin.Context) {
	cities, err := h.geoService.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CityResponse, 0, len(cities))
	for _, city := range cities {
		response = append(response, CityResponse{ID: city.ID, Name: city.Name, Lat: city.Lat, Lng: city.Lng})
	}

	respondJSON(c, http.StatusOK, response)
}

// Resolve handles GET /v1/cities/resolve?lat=&lng=
func (h *CityHandler) Resolve(c *gin.Context) {
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

	city, err := h.geoService.ResolveCity(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CityResponse{ID: city.ID, Name: city.Name, Lat: city.Lat, Lng: city.Lng})
}
