package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	PassengerID string `json:"passenger_id"` // office use only
	DriverID    string `json:"driver_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartAt    string `json:"depart_at"` // RFC 3339
	Seats       int    `json:"seats"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID           string  `json:"id"`
	PassengerID  string  `json:"passenger_id"`
	DriverID     string  `json:"driver_id,omitempty"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	DepartAt     string  `json:"depart_at"`
	Seats        int     `json:"seats"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	CancelledAt  string  `json:"cancelled_at,omitempty"`
	CancelledBy  string  `json:"cancelled_by,omitempty"`
	CancelReason string  `json:"cancel_reason,omitempty"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:          trip.ID,
		PassengerID: trip.PassengerID,
		DriverID:    trip.DriverID,
		Origin:      trip.Origin,
		Destination: trip.Destination,
		DepartAt:    trip.DepartAt.Format(time.RFC3339),
		Seats:       trip.Seats,
		Amount:      trip.Amount,
		Status:      string(trip.Status),
	}
	if !trip.CancelledAt.IsZero() {
		resp.CancelledAt = trip.CancelledAt.Format(time.RFC3339)
		resp.CancelledBy = trip.CancelledBy
		resp.CancelReason = trip.CancelReason
	}
	return resp
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	var departAt time.Time
	if req.DepartAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.DepartAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "depart_at must be RFC 3339"})
			return
		}
		departAt = parsed
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		Actor:       actor,
		PassengerID: req.PassengerID,
		DriverID:    req.DriverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartAt:    departAt,
		Seats:       req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// AssignDriverRequest is the HTTP request body for assigning a driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// AssignDriver handles POST /v1/trips/:id/assign
func (h *TripHandler) AssignDriver(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	trip, err := h.tripService.AssignDriver(c.Request.Context(), service.AssignDriverRequest{
		Actor:    actor,
		TripID:   c.Param("id"),
		DriverID: req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ConfirmTrip handles POST /v1/trips/:id/confirm
func (h *TripHandler) ConfirmTrip(c *gin.Context) {
	h.advance(c, h.tripService.ConfirmTrip)
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	h.advance(c, h.tripService.StartTrip)
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	h.advance(c, h.tripService.CompleteTrip)
}

func (h *TripHandler) advance(c *gin.Context, op func(ctx context.Context, req service.TransitionRequest) (*domain.Trip, error)) {
	actor, _ := middleware.ActorFrom(c)

	trip, err := op(c.Request.Context(), service.TransitionRequest{
		Actor:  actor,
		TripID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CancelTripRequest is the HTTP request body for cancelling a trip.
type CancelTripRequest struct {
	Reason string `json:"reason"`
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req CancelTripRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	trip, err := h.tripService.CancelTrip(c.Request.Context(), service.CancelTripRequest{
		Actor:  actor,
		TripID: c.Param("id"),
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ListTrips handles GET /v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	trips, err := h.tripService.ListTrips(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// ListToday handles GET /v1/trips/today
func (h *TripHandler) ListToday(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	trips, err := h.tripService.ListDriverTripsToday(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}
