package repository

import (
	"context"
	"time"

	"transit/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// List retrieves recent trips across all passengers.
	List(ctx context.Context) ([]*domain.Trip, error)

	// ListByPassenger retrieves a passenger's trips, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error)

	// ListByDriver retrieves a driver's trips, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// ListByDriverBetween retrieves a driver's trips departing within [from, to).
	ListByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error)

	// CountCompletedByDriver counts a driver's completed trips.
	CountCompletedByDriver(ctx context.Context, driverID string) (int, error)
}
