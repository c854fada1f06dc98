package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/gateway/chapa"
	"travel/internal/repository"
	"travel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Server-side failures are attached to the gin context and answered generically.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: http.StatusText(code)})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var rejected *chapa.RejectedError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidListingID),
		errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrInvalidTxRef),
		errors.Is(err, repository.ErrListingMissing):
		return http.StatusBadRequest

	// Payment state errors
	case errors.Is(err, service.ErrDuplicatePayment),
		errors.Is(err, service.ErrVerificationFailed):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, repository.ErrDuplicateTxRef),
		errors.Is(err, repository.ErrBookingAlreadyPaid):
		return http.StatusConflict

	// Upstream gateway errors
	case errors.Is(err, chapa.ErrGatewayUnreachable),
		errors.As(err, &rejected):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
