package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transit/internal/domain"
	"transit/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// ListActive retrieves the active routes ordered by origin.
func (r *RouteRepository) ListActive(ctx context.Context) ([]*domain.Route, error) {
	query := `
		SELECT id, origen, destino, precio_base, duracion_estimada, distancia_km, activa
		FROM rutas WHERE activa = TRUE ORDER BY origen ASC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		var minutes sql.NullInt64
		var distance sql.NullFloat64

		if err := rows.Scan(
			&route.ID,
			&route.Origin,
			&route.Destination,
			&route.BaseFare,
			&minutes,
			&distance,
			&route.Active,
		); err != nil {
			return nil, err
		}

		route.EstimatedMinutes = int(minutes.Int64)
		route.DistanceKm = distance.Float64
		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

// GetFare retrieves the per-seat base fare for an active route.
func (r *RouteRepository) GetFare(ctx context.Context, origin, destination string) (float64, error) {
	query := `SELECT precio_base FROM rutas WHERE origen = $1 AND destino = $2 AND activa = TRUE`

	var fare float64
	err := r.q.QueryRowContext(ctx, query, origin, destination).Scan(&fare)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return fare, nil
}

// ListStops retrieves the active named stops ordered by name.
func (r *RouteRepository) ListStops(ctx context.Context) ([]*domain.Stop, error) {
	query := `
		SELECT id, nombre, latitud, longitud, tipo, activa
		FROM ubicaciones WHERE activa = TRUE ORDER BY nombre ASC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []*domain.Stop
	for rows.Next() {
		var stop domain.Stop
		if err := rows.Scan(&stop.ID, &stop.Name, &stop.Lat, &stop.Lng, &stop.Type, &stop.Active); err != nil {
			return nil, err
		}
		stops = append(stops, &stop)
	}

	return stops, rows.Err()
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
