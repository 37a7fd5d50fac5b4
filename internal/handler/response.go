package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freight/internal/repository"
	"freight/internal/service"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError sends a structured error with the appropriate HTTP status.
func respondError(c *gin.Context, err error) {
	status, code := mapError(err)
	c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps service/repository errors to HTTP status and stable codes.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NotFound"

	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, "InvalidTransition"
	case errors.Is(err, service.ErrStaleTripVersion):
		return http.StatusConflict, "StaleTripVersion"
	case errors.Is(err, service.ErrDriverConflict):
		return http.StatusConflict, "DriverConflict"
	case errors.Is(err, service.ErrTrackingNotActive):
		return http.StatusConflict, "TrackingNotActive"
	case errors.Is(err, service.ErrTripNotPending):
		return http.StatusConflict, "TripNotPending"
	case errors.Is(err, service.ErrNotCancellable):
		return http.StatusConflict, "NotCancellable"

	case errors.Is(err, service.ErrTripNotDelivered):
		return http.StatusInternalServerError, "TripNotDelivered"

	case errors.Is(err, service.ErrNotTripDriver),
		errors.Is(err, service.ErrForbiddenTransition):
		return http.StatusForbidden, "Forbidden"

	case errors.Is(err, service.ErrInvalidCoordinate):
		return http.StatusBadRequest, "InvalidCoordinate"
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrDriverRequired),
		errors.Is(err, service.ErrUnresolvedEndpoint),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrVehicleTypeRequired),
		errors.Is(err, service.ErrTemperatureRequired):
		return http.StatusBadRequest, "BadRequest"

	case errors.Is(err, service.ErrNoCities):
		return http.StatusServiceUnavailable, "NoCities"

	default:
		return http.StatusInternalServerError, "Internal"
	}
}
