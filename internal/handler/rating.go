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

// RatingHandler handles HTTP requests for ratings and driver statistics.
type RatingHandler struct {
	ratingService *service.RatingService
	statsService  *service.StatsService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService, statsService *service.StatsService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, statsService: statsService}
}

// SubmitRatingRequest is the HTTP request body for rating a trip.
type SubmitRatingRequest struct {
	TripID       string `json:"trip_id"`
	Overall      int    `json:"overall"`
	Punctuality  int    `json:"punctuality"`
	Vehicle      int    `json:"vehicle"`
	Driving      int    `json:"driving"`
	Friendliness int    `json:"friendliness"`
	Comment      string `json:"comment"`
	Recommend    bool   `json:"recommend"`
}

// RatingResponse is the HTTP response for rating data.
type RatingResponse struct {
	ID           string `json:"id"`
	TripID       string `json:"trip_id"`
	PassengerID  string `json:"passenger_id"`
	DriverID     string `json:"driver_id"`
	Overall      int    `json:"overall"`
	Punctuality  int    `json:"punctuality,omitempty"`
	Vehicle      int    `json:"vehicle,omitempty"`
	Driving      int    `json:"driving,omitempty"`
	Friendliness int    `json:"friendliness,omitempty"`
	Comment      string `json:"comment,omitempty"`
	Recommend    bool   `json:"recommend"`
	CreatedAt    string `json:"created_at"`
	Reply        string `json:"reply,omitempty"`
}

func toRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:           r.ID,
		TripID:       r.TripID,
		PassengerID:  r.PassengerID,
		DriverID:     r.DriverID,
		Overall:      r.Overall,
		Punctuality:  r.Punctuality,
		Vehicle:      r.Vehicle,
		Driving:      r.Driving,
		Friendliness: r.Friendliness,
		Comment:      r.Comment,
		Recommend:    r.Recommend,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

// SubmitRating handles POST /v1/ratings
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	rating, err := h.ratingService.SubmitRating(c.Request.Context(), service.SubmitRatingRequest{
		Actor:        actor,
		TripID:       req.TripID,
		Overall:      req.Overall,
		Punctuality:  req.Punctuality,
		Vehicle:      req.Vehicle,
		Driving:      req.Driving,
		Friendliness: req.Friendliness,
		Comment:      req.Comment,
		Recommend:    req.Recommend,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRatingResponse(rating))
}

// RespondRequest is the HTTP request body for a driver's reply.
type RespondRequest struct {
	Reply string `json:"reply"`
}

// RespondToRating handles POST /v1/ratings/:id/respond
func (h *RatingHandler) RespondToRating(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	resp, err := h.ratingService.RespondToRating(c.Request.Context(), service.RespondRequest{
		Actor:    actor,
		RatingID: c.Param("id"),
		Reply:    req.Reply,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"id":        resp.ID,
		"rating_id": resp.RatingID,
		"reply":     resp.Reply,
	})
}

// ListDriverRatings handles GET /v1/drivers/:id/ratings
func (h *RatingHandler) ListDriverRatings(c *gin.Context) {
	ratings, responses, err := h.ratingService.ListDriverRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		rr := toRatingResponse(rating)
		if resp, ok := responses[rating.ID]; ok {
			rr.Reply = resp.Reply
		}
		result = append(result, rr)
	}

	respondJSON(c, http.StatusOK, result)
}

// ListAttention handles GET /v1/ratings/attention
func (h *RatingHandler) ListAttention(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	limit, _ := strconv.Atoi(c.Query("limit"))

	ratings, err := h.ratingService.ListRatingsNeedingAttention(c.Request.Context(), actor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		result = append(result, toRatingResponse(rating))
	}

	respondJSON(c, http.StatusOK, result)
}

// DriverStatsResponse is the HTTP response for driver aggregates.
type DriverStatsResponse struct {
	DriverID        string  `json:"driver_id"`
	TripsCompleted  int     `json:"trips_completed"`
	RatingCount     int     `json:"rating_count"`
	AvgOverall      float64 `json:"avg_overall"`
	AvgPunctuality  float64 `json:"avg_punctuality"`
	AvgVehicle      float64 `json:"avg_vehicle"`
	AvgDriving      float64 `json:"avg_driving"`
	AvgFriendliness float64 `json:"avg_friendliness"`
	RecommendPct    float64 `json:"recommend_pct"`
	Distribution    [5]int  `json:"distribution"`
}

// GetDriverStats handles GET /v1/drivers/:id/stats
func (h *RatingHandler) GetDriverStats(c *gin.Context) {
	stats, err := h.statsService.DriverStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DriverStatsResponse{
		DriverID:        stats.DriverID,
		TripsCompleted:  stats.TripsCompleted,
		RatingCount:     stats.RatingCount,
		AvgOverall:      stats.AvgOverall,
		AvgPunctuality:  stats.AvgPunctuality,
		AvgVehicle:      stats.AvgVehicle,
		AvgDriving:      stats.AvgDriving,
		AvgFriendliness: stats.AvgFriendliness,
		RecommendPct:    stats.RecommendPct,
		Distribution:    stats.Distribution,
	})
}

// RankingEntryResponse is one leaderboard row.
type RankingEntryResponse struct {
	Position       int     `json:"position"`
	DriverID       string  `json:"driver_id"`
	Name           string  `json:"name"`
	AvgRating      float64 `json:"avg_rating"`
	RatingCount    int     `json:"rating_count"`
	TripsCompleted int     `json:"trips_completed"`
}

// GetRanking handles GET /v1/drivers/ranking
func (h *RatingHandler) GetRanking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.statsService.Ranking(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]RankingEntryResponse, 0, len(entries))
	for i, e := range entries {
		result = append(result, RankingEntryResponse{
			Position:       i + 1,
			DriverID:       e.DriverID,
			Name:           e.Name,
			AvgRating:      e.AvgRating,
			RatingCount:    e.RatingCount,
			TripsCompleted: e.TripsCompleted,
		})
	}

	respondJSON(c, http.StatusOK, result)
}
