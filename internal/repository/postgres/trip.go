package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"transit/internal/domain"
	"transit/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, pasajero_id, conductor_id, origen, destino, fecha_viaje, asientos, precio, estado, cancelado_en, cancelado_por, motivo_cancelacion, created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO viajes (id, pasajero_id, conductor_id, origen, destino, fecha_viaje, asientos, precio, estado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.PassengerID,
		nullString(trip.DriverID),
		trip.Origin,
		trip.Destination,
		trip.DepartAt,
		trip.Seats,
		trip.Amount,
		trip.Status,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viajes WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE viajes
		SET conductor_id = $1, origen = $2, destino = $3, fecha_viaje = $4, asientos = $5,
		    precio = $6, estado = $7, cancelado_en = $8, cancelado_por = $9, motivo_cancelacion = $10
		WHERE id = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(trip.DriverID),
		trip.Origin,
		trip.Destination,
		trip.DepartAt,
		trip.Seats,
		trip.Amount,
		trip.Status,
		nullTime(trip.CancelledAt),
		nullString(trip.CancelledBy),
		nullString(trip.CancelReason),
		trip.ID,
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

// List retrieves recent trips across all passengers.
func (r *TripRepository) List(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viajes ORDER BY fecha_viaje DESC LIMIT 100`
	return r.queryTrips(ctx, query)
}

// ListByPassenger retrieves a passenger's trips, newest first.
func (r *TripRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viajes WHERE pasajero_id = $1 ORDER BY fecha_viaje DESC`
	return r.queryTrips(ctx, query, passengerID)
}

// ListByDriver retrieves a driver's trips, newest first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viajes WHERE conductor_id = $1 ORDER BY fecha_viaje DESC`
	return r.queryTrips(ctx, query, driverID)
}

// ListByDriverBetween retrieves a driver's trips departing within [from, to).
func (r *TripRepository) ListByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM viajes
		WHERE conductor_id = $1 AND fecha_viaje >= $2 AND fecha_viaje < $3
		ORDER BY fecha_viaje DESC
	`
	return r.queryTrips(ctx, query, driverID, from, to)
}

// CountCompletedByDriver counts a driver's completed trips.
func (r *TripRepository) CountCompletedByDriver(ctx context.Context, driverID string) (int, error) {
	query := `SELECT COUNT(*) FROM viajes WHERE conductor_id = $1 AND estado = $2`

	var count int
	err := r.q.QueryRowContext(ctx, query, driverID, domain.TripStatusCompleted).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driverID, cancelledBy, cancelReason sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.PassengerID,
		&driverID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartAt,
		&trip.Seats,
		&trip.Amount,
		&trip.Status,
		&cancelledAt,
		&cancelledBy,
		&cancelReason,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.DriverID = driverID.String
	trip.CancelledBy = cancelledBy.String
	trip.CancelReason = cancelReason.String
	if cancelledAt.Valid {
		trip.CancelledAt = cancelledAt.Time
	}

	return &trip, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
