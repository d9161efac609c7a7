package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"triplog/internal/maps"
	"triplog/internal/repository"
	"triplog/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Reason  string             `json:"reason,omitempty"`
	Request *CreateTripRequest `json:"request,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Resolution failures echo the submitted trip so the client can keep its form.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)

	resp := ErrorResponse{Error: err.Error()}

	var resErr *service.ResolutionError
	switch {
	case errors.As(err, &resErr):
		resp.Reason = resErr.Reason
		resp.Request = &CreateTripRequest{
			Date:          resErr.Request.Date,
			StartLocation: resErr.Request.StartLocation,
			EndLocation:   resErr.Request.EndLocation,
			Comment:       resErr.Request.Comment,
		}
	case maps.IsResolutionFailure(err):
		resp.Reason = maps.Reason(err)
	}

	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var resErr *service.ResolutionError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidStartLocation),
		errors.Is(err, service.ErrInvalidEndLocation),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, errInvalidRequestBody),
		errors.Is(err, errMissingInput):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrSubmissionPending),
		errors.Is(err, service.ErrDuplicateTripID):
		return http.StatusConflict

	// Resolver did not answer in time
	case errors.Is(err, service.ErrResolutionTimeout):
		return http.StatusGatewayTimeout

	// Locations the provider understood but cannot route
	case errors.Is(err, maps.ErrNoRoute),
		errors.Is(err, maps.ErrAmbiguousLocation):
		return http.StatusUnprocessableEntity

	// Provider failures
	case errors.Is(err, maps.ErrServiceUnavailable),
		errors.As(err, &resErr):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
