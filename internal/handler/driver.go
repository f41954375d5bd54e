package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
	"transit/internal/middleware"
	"transit/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// RegisterDriverRequest is the HTTP request body for registering a driver.
type RegisterDriverRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Vehicle  string `json:"vehicle"`
	Plate    string `json:"plate"`
	Capacity int    `json:"capacity"`
	Code     string `json:"code"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone,omitempty"`
	Vehicle   string  `json:"vehicle,omitempty"`
	Plate     string  `json:"plate,omitempty"`
	Capacity  int     `json:"capacity"`
	Code      string  `json:"code,omitempty"`
	Status    string  `json:"status"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	LocatedAt string  `json:"located_at,omitempty"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	resp := DriverResponse{
		ID:       d.ID,
		Name:     d.Name,
		Phone:    d.Phone,
		Vehicle:  d.Vehicle,
		Plate:    d.Plate,
		Capacity: d.Capacity,
		Code:     d.Code,
		Status:   string(d.Status),
		Lat:      d.Lat,
		Lng:      d.Lng,
	}
	if !d.LocatedAt.IsZero() {
		resp.LocatedAt = d.LocatedAt.Format(time.RFC3339)
	}
	return resp
}

// RegisterDriver handles POST /v1/drivers
func (h *DriverHandler) RegisterDriver(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	driver, err := h.driverService.RegisterDriver(c.Request.Context(), service.RegisterDriverRequest{
		Actor:    actor,
		Name:     req.Name,
		Phone:    req.Phone,
		Vehicle:  req.Vehicle,
		Plate:    req.Plate,
		Capacity: req.Capacity,
		Code:     req.Code,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// SetStatusRequest is the HTTP request body for changing availability.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles POST /v1/drivers/:id/status
func (h *DriverHandler) SetStatus(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.driverService.SetStatus(c.Request.Context(), actor, c.Param("id"), domain.DriverStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

// ReportLocationRequest is the HTTP request body for a position report.
type ReportLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReportLocation handles POST /v1/drivers/location
func (h *DriverHandler) ReportLocation(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req ReportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.driverService.ReportLocation(c.Request.Context(), actor, req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"driver_id": actor.UserID, "lat": req.Lat, "lng": req.Lng})
}

// Nearby handles GET /v1/drivers/nearby
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "lat and lng are required"})
		return
	}
	radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)

	drivers, err := h.driverService.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, toDriverResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// ListDrivers handles GET /v1/drivers
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	var (
		drivers []*domain.Driver
		err     error
	)

	if c.Query("status") == string(domain.DriverStatusAvailable) {
		drivers, err = h.driverService.ListAvailableDrivers(c.Request.Context())
	} else {
		drivers, err = h.driverService.ListDrivers(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, toDriverResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}
