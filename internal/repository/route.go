package repository

import (
	"context"

	"transit/internal/domain"
)

// RouteRepository defines the persistence operations for fare routes and stops.
type RouteRepository interface {
	// ListActive retrieves the active routes ordered by origin.
	ListActive(ctx context.Context) ([]*domain.Route, error)

	// GetFare retrieves the per-seat base fare for an active route.
	// Returns ErrNotFound when no fare is configured for the pair.
	GetFare(ctx context.Context, origin, destination string) (float64, error)

	// ListStops retrieves the active named stops ordered by name.
	ListStops(ctx context.Context) ([]*domain.Stop, error)
}
