package repository

import (
	"context"

	"transit/internal/domain"
)

// RequestRepository defines the persistence operations for special requests.
type RequestRepository interface {
	// Create persists a new special request.
	Create(ctx context.Context, req *domain.SpecialRequest) error

	// GetByID retrieves a special request by ID.
	GetByID(ctx context.Context, id string) (*domain.SpecialRequest, error)

	// Update updates an existing special request.
	Update(ctx context.Context, req *domain.SpecialRequest) error

	// List retrieves all special requests, newest first (office view).
	List(ctx context.Context) ([]*domain.SpecialRequest, error)

	// ListByPassenger retrieves a passenger's special requests, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.SpecialRequest, error)
}
