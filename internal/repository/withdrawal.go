package repository

import (
	"context"

	"transit/internal/domain"
)

// WithdrawalRepository defines the persistence operations for withdrawals.
type WithdrawalRepository interface {
	// Create persists a new withdrawal request.
	Create(ctx context.Context, w *domain.Withdrawal) error

	// GetByID retrieves a withdrawal by ID.
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)

	// Update updates an existing withdrawal.
	Update(ctx context.Context, w *domain.Withdrawal) error

	// ListByDriver retrieves a driver's withdrawals, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Withdrawal, error)

	// ListPending retrieves withdrawals awaiting office action, newest first.
	ListPending(ctx context.Context) ([]*domain.Withdrawal, error)

	// TotalActiveByDriver sums a driver's withdrawals that are not rejected.
	// Pending and processing requests count against the balance.
	TotalActiveByDriver(ctx context.Context, driverID string) (float64, error)
}
