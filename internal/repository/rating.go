package repository

import (
	"context"

	"transit/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating. Returns ErrDuplicate when a rating
	// for the same (trip, passenger) pair already exists.
	Create(ctx context.Context, rating *domain.Rating) error

	// GetByID retrieves a rating by ID.
	GetByID(ctx context.Context, id string) (*domain.Rating, error)

	// ListByDriver retrieves a driver's ratings, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Rating, error)

	// ListLowRated retrieves recent ratings with overall score at or below
	// the threshold (office attention queue).
	ListLowRated(ctx context.Context, threshold, limit int) ([]*domain.Rating, error)

	// CreateResponse persists the driver's reply to a rating. Returns
	// ErrDuplicate when the rating already has a response.
	CreateResponse(ctx context.Context, resp *domain.RatingResponse) error

	// GetResponse retrieves the response attached to a rating, if any.
	GetResponse(ctx context.Context, ratingID string) (*domain.RatingResponse, error)

	// Aggregate computes rating aggregates for a driver.
	Aggregate(ctx context.Context, driverID string) (*domain.DriverStats, error)

	// Ranking retrieves the top drivers by average rating.
	Ranking(ctx context.Context, limit int) ([]*domain.RankingEntry, error)
}
