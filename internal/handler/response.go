package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"transit/internal/repository"
	"transit/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Success: false, Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidPassengerID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidWithdrawalID),
		errors.Is(err, service.ErrInvalidMessageID),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidSeats),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidRatingID),
		errors.Is(err, service.ErrInvalidReply),
		errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest

	// Role and ownership errors - Forbidden
	case errors.Is(err, service.ErrNotAllowed),
		errors.Is(err, service.ErrNotTripPassenger),
		errors.Is(err, service.ErrDriverNotAssigned):
		return http.StatusForbidden

	// State machine errors - Conflict
	case errors.Is(err, service.ErrInvalidTripTransition),
		errors.Is(err, service.ErrTripNotCompleted),
		errors.Is(err, service.ErrDuplicateRating),
		errors.Is(err, service.ErrDuplicateResponse),
		errors.Is(err, service.ErrPaymentNotPending),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, service.ErrPaymentNotRefundable),
		errors.Is(err, service.ErrInvalidRequestTransition),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrWithdrawalProcessed):
		return http.StatusConflict

	// Business rejections - Unprocessable Entity
	case errors.Is(err, service.ErrNoFareForRoute),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity

	// A declined payment is a valid resolution, not a server fault.
	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
