package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit/internal/repository"
)

// RouteHandler handles HTTP requests for fare routes and stops.
type RouteHandler struct {
	routeRepo repository.RouteRepository
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeRepo repository.RouteRepository) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo}
}

// RouteResponse is the HTTP response for a fare route.
type RouteResponse struct {
	ID               string  `json:"id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	BaseFare         float64 `json:"base_fare"`
	EstimatedMinutes int     `json:"estimated_minutes,omitempty"`
	DistanceKm       float64 `json:"distance_km,omitempty"`
}

// StopResponse is the HTTP response for a named stop.
type StopResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Type string  `json:"type"`
}

// ListRoutes handles GET /v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepo.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, RouteResponse{
			ID:               r.ID,
			Origin:           r.Origin,
			Destination:      r.Destination,
			BaseFare:         r.BaseFare,
			EstimatedMinutes: r.EstimatedMinutes,
			DistanceKm:       r.DistanceKm,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// GetFare handles GET /v1/routes/fare?origin=X&destination=Y
func (h *RouteHandler) GetFare(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "origin and destination are required"})
		return
	}

	fare, err := h.routeRepo.GetFare(c.Request.Context(), origin, destination)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"origin":      origin,
		"destination": destination,
		"base_fare":   fare,
	})
}

// ListStops handles GET /v1/stops
func (h *RouteHandler) ListStops(c *gin.Context) {
	stops, err := h.routeRepo.ListStops(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		response = append(response, StopResponse{
			ID:   s.ID,
			Name: s.Name,
			Lat:  s.Lat,
			Lng:  s.Lng,
			Type: string(s.Type),
		})
	}

	respondJSON(c, http.StatusOK, response)
}
