package repository

import (
	"context"

	"transit/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// UpdateStatus updates the status of a payment.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// List retrieves recent payments across all users (office view).
	List(ctx context.Context) ([]*domain.Payment, error)

	// ListByPassenger retrieves a passenger's payments, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error)

	// ListByDriver retrieves a driver's payments, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error)

	// TotalCompletedByDriver sums a driver's completed payments.
	TotalCompletedByDriver(ctx context.Context, driverID string) (float64, error)
}
