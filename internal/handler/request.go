package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// RequestHandler handles HTTP requests for special requests.
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestRequest is the HTTP request body for filing a special request.
type CreateRequestRequest struct {
	PassengerID string `json:"passenger_id"` // office use only
	Destination string `json:"destination"`
	TravelAt    string `json:"travel_at"` // RFC 3339
	Passengers  int    `json:"passengers"`
	Comments    string `json:"comments"`
}

// SpecialRequestResponse is the HTTP response for special request data.
type SpecialRequestResponse struct {
	ID               string  `json:"id"`
	PassengerID      string  `json:"passenger_id"`
	Destination      string  `json:"destination"`
	TravelAt         string  `json:"travel_at"`
	Passengers       int     `json:"passengers"`
	Comments         string  `json:"comments,omitempty"`
	Status           string  `json:"status"`
	AssignedDriverID string  `json:"assigned_driver_id,omitempty"`
	EstimatedPrice   float64 `json:"estimated_price,omitempty"`
	AssignedBy       string  `json:"assigned_by,omitempty"`
	ClosedBy         string  `json:"closed_by,omitempty"`
	ClosedAt         string  `json:"closed_at,omitempty"`
}

func toRequestResponse(r *domain.SpecialRequest) SpecialRequestResponse {
	resp := SpecialRequestResponse{
		ID:               r.ID,
		PassengerID:      r.PassengerID,
		Destination:      r.Destination,
		TravelAt:         r.TravelAt.Format(time.RFC3339),
		Passengers:       r.Passengers,
		Comments:         r.Comments,
		Status:           string(r.Status),
		AssignedDriverID: r.AssignedDriverID,
		EstimatedPrice:   r.EstimatedPrice,
		AssignedBy:       r.AssignedBy,
		ClosedBy:         r.ClosedBy,
	}
	if !r.ClosedAt.IsZero() {
		resp.ClosedAt = r.ClosedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateRequest handles POST /v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	var travelAt time.Time
	if req.TravelAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.TravelAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "travel_at must be RFC 3339"})
			return
		}
		travelAt = parsed
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestRequest{
		Actor:       actor,
		PassengerID: req.PassengerID,
		Destination: req.Destination,
		TravelAt:    travelAt,
		Passengers:  req.Passengers,
		Comments:    req.Comments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRequestResponse(request))
}

// AssignRequestRequest is the HTTP request body for assigning a driver.
type AssignRequestRequest struct {
	DriverID       string  `json:"driver_id"`
	EstimatedPrice float64 `json:"estimated_price"`
}

// AssignRequest handles POST /v1/requests/:id/assign
func (h *RequestHandler) AssignRequest(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req AssignRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	request, err := h.requestService.AssignRequest(c.Request.Context(), service.AssignRequestRequest{
		Actor:          actor,
		RequestID:      c.Param("id"),
		DriverID:       req.DriverID,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// TransitionRequestRequest is the HTTP request body for advancing a request.
type TransitionRequestRequest struct {
	Status string `json:"status"`
}

// TransitionRequest handles POST /v1/requests/:id/status
func (h *RequestHandler) TransitionRequest(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req TransitionRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	request, err := h.requestService.TransitionRequest(c.Request.Context(), service.TransitionRequestRequest{
		Actor:     actor,
		RequestID: c.Param("id"),
		Status:    domain.RequestStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// GetRequest handles GET /v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// ListRequests handles GET /v1/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	requests, err := h.requestService.ListRequests(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SpecialRequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, toRequestResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}
