package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transit/internal/domain"
	"transit/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL special-request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

const requestColumns = `id, pasajero_id, destino, fecha_viaje, pasajeros, comentarios, estado, conductor_asignado, precio_estimado, asignado_por, cerrado_por, fecha_cierre, created_at`

// Create persists a new special request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.SpecialRequest) error {
	query := `
		INSERT INTO solicitudes_especiales (id, pasajero_id, destino, fecha_viaje, pasajeros, comentarios, estado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.PassengerID,
		req.Destination,
		req.TravelAt,
		req.Passengers,
		nullString(req.Comments),
		req.Status,
		req.CreatedAt,
	)

	return err
}

// GetByID retrieves a special request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.SpecialRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_especiales WHERE id = $1`

	req, err := scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return req, nil
}

// Update updates an existing special request.
func (r *RequestRepository) Update(ctx context.Context, req *domain.SpecialRequest) error {
	query := `
		UPDATE solicitudes_especiales
		SET estado = $1, conductor_asignado = $2, precio_estimado = $3,
		    asignado_por = $4, cerrado_por = $5, fecha_cierre = $6
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		req.Status,
		nullString(req.AssignedDriverID),
		req.EstimatedPrice,
		nullString(req.AssignedBy),
		nullString(req.ClosedBy),
		nullTime(req.ClosedAt),
		req.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List retrieves all special requests, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]*domain.SpecialRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_especiales ORDER BY created_at DESC`
	return r.queryRequests(ctx, query)
}

// ListByPassenger retrieves a passenger's special requests, newest first.
func (r *RequestRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.SpecialRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes_especiales WHERE pasajero_id = $1 ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, passengerID)
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*domain.SpecialRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.SpecialRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func scanRequest(row rowScanner) (*domain.SpecialRequest, error) {
	var req domain.SpecialRequest
	var comments, driverID, assignedBy, closedBy sql.NullString
	var estimatedPrice sql.NullFloat64
	var closedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.PassengerID,
		&req.Destination,
		&req.TravelAt,
		&req.Passengers,
		&comments,
		&req.Status,
		&driverID,
		&estimatedPrice,
		&assignedBy,
		&closedBy,
		&closedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Comments = comments.String
	req.AssignedDriverID = driverID.String
	req.EstimatedPrice = estimatedPrice.Float64
	req.AssignedBy = assignedBy.String
	req.ClosedBy = closedBy.String
	if closedAt.Valid {
		req.ClosedAt = closedAt.Time
	}

	return &req, nil
}

// Ensure RequestRepository implements repository.RequestRepository.
var _ repository.RequestRepository = (*RequestRepository)(nil)
