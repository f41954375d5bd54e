package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/repository"
)

// RatingService handles rating submission and driver responses.
type RatingService struct {
	ratingRepo          repository.RatingRepository
	tripRepo            repository.TripRepository
	notificationService *NotificationService
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	ratingRepo repository.RatingRepository,
	tripRepo repository.TripRepository,
	notificationService *NotificationService,
) *RatingService {
	return &RatingService{
		ratingRepo:          ratingRepo,
		tripRepo:            tripRepo,
		notificationService: notificationService,
	}
}

// SubmitRatingRequest contains the parameters for submitting a rating.
type SubmitRatingRequest struct {
	Actor        domain.Actor
	TripID       string
	Overall      int
	Punctuality  int
	Vehicle      int
	Driving      int
	Friendliness int
	Comment      string
	Recommend    bool
}

// SubmitRating records a passenger's rating for a completed trip. The
// uniqueness of (trip, passenger) is enforced by the database constraint,
// so two concurrent submissions cannot both succeed.
func (s *RatingService) SubmitRating(ctx context.Context, req SubmitRatingRequest) (*domain.Rating, error) {
	if !req.Actor.Is(domain.RolePassenger) {
		return nil, ErrNotAllowed
	}
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.Overall < 1 || req.Overall > 5 {
		return nil, ErrInvalidScore
	}
	for _, sub := range []int{req.Punctuality, req.Vehicle, req.Driving, req.Friendliness} {
		if sub < 0 || sub > 5 {
			return nil, ErrInvalidScore
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if trip.PassengerID != req.Actor.UserID {
		return nil, ErrNotTripPassenger
	}

	if trip.Status != domain.TripStatusCompleted {
		return nil, ErrTripNotCompleted
	}

	rating := &domain.Rating{
		ID:           uuid.New().String(),
		TripID:       trip.ID,
		PassengerID:  trip.PassengerID,
		DriverID:     trip.DriverID,
		Overall:      req.Overall,
		Punctuality:  req.Punctuality,
		Vehicle:      req.Vehicle,
		Driving:      req.Driving,
		Friendliness: req.Friendliness,
		Comment:      req.Comment,
		Recommend:    req.Recommend,
		CreatedAt:    time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRating
		}
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRatingReceived(ctx, rating)
	}

	return rating, nil
}

// RespondRequest contains the parameters for a driver's reply to a rating.
type RespondRequest struct {
	Actor    domain.Actor
	RatingID string
	Reply    string
}

// RespondToRating attaches the driver's single textual response to a rating.
func (s *RatingService) RespondToRating(ctx context.Context, req RespondRequest) (*domain.RatingResponse, error) {
	if !req.Actor.Is(domain.RoleDriver) {
		return nil, ErrNotAllowed
	}
	if req.RatingID == "" {
		return nil, ErrInvalidRatingID
	}
	if req.Reply == "" {
		return nil, ErrInvalidReply
	}

	rating, err := s.ratingRepo.GetByID(ctx, req.RatingID)
	if err != nil {
		return nil, err
	}

	if rating.DriverID != req.Actor.UserID {
		return nil, ErrNotAllowed
	}

	resp := &domain.RatingResponse{
		ID:        uuid.New().String(),
		RatingID:  rating.ID,
		DriverID:  rating.DriverID,
		Reply:     req.Reply,
		CreatedAt: time.Now(),
	}

	if err := s.ratingRepo.CreateResponse(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateResponse
		}
		return nil, err
	}

	return resp, nil
}

// ListDriverRatings retrieves a driver's ratings with any responses attached.
func (s *RatingService) ListDriverRatings(ctx context.Context, driverID string) ([]*domain.Rating, map[string]*domain.RatingResponse, error) {
	if driverID == "" {
		return nil, nil, ErrInvalidDriverID
	}

	ratings, err := s.ratingRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, nil, err
	}

	responses := make(map[string]*domain.RatingResponse)
	for _, rating := range ratings {
		resp, err := s.ratingRepo.GetResponse(ctx, rating.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		responses[rating.ID] = resp
	}

	return ratings, responses, nil
}

// attentionThreshold flags ratings the office should review.
const attentionThreshold = 3

// ListRatingsNeedingAttention retrieves recent low ratings. Office only.
func (s *RatingService) ListRatingsNeedingAttention(ctx context.Context, actor domain.Actor, limit int) ([]*domain.Rating, error) {
	if !actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if limit <= 0 {
		limit = 10
	}

	return s.ratingRepo.ListLowRated(ctx, attentionThreshold, limit)
}
