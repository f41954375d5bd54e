package repository

import (
	"context"
	"time"

	"transit/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// List retrieves all drivers.
	List(ctx context.Context) ([]*domain.Driver, error)

	// ListAvailable retrieves drivers currently reporting as available,
	// most recently located first.
	ListAvailable(ctx context.Context) ([]*domain.Driver, error)

	// UpdateStatus updates the availability status of a driver.
	UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error

	// UpdateLocation records a driver's last reported position.
	UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) error
}
