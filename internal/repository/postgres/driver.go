package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"transit/internal/domain"
	"transit/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, nombre, telefono, vehiculo, placa, capacidad, codigo_conductor, estado, ubicacion_lat, ubicacion_lng, ultima_ubicacion, fecha_ingreso`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO conductores (id, nombre, telefono, vehiculo, placa, capacidad, codigo_conductor, estado, fecha_ingreso)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		nullString(driver.Phone),
		nullString(driver.Vehicle),
		nullString(driver.Plate),
		driver.Capacity,
		nullString(driver.Code),
		driver.Status,
		driver.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM conductores WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// List retrieves all drivers.
func (r *DriverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM conductores ORDER BY nombre ASC`
	return r.queryDrivers(ctx, query)
}

// ListAvailable retrieves available drivers, most recently located first.
func (r *DriverRepository) ListAvailable(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + ` FROM conductores
		WHERE estado = $1
		ORDER BY ultima_ubicacion DESC NULLS LAST
	`
	return r.queryDrivers(ctx, query, domain.DriverStatusAvailable)
}

// UpdateStatus updates the availability status of a driver.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	query := `UPDATE conductores SET estado = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// UpdateLocation records a driver's last reported position.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) error {
	query := `UPDATE conductores SET ubicacion_lat = $1, ubicacion_lng = $2, ultima_ubicacion = $3 WHERE id = $4`

	result, err := r.q.ExecContext(ctx, query, lat, lng, at, id)
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

func (r *DriverRepository) queryDrivers(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var phone, vehicle, plate, code sql.NullString
	var lat, lng sql.NullFloat64
	var locatedAt sql.NullTime

	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&phone,
		&vehicle,
		&plate,
		&driver.Capacity,
		&code,
		&driver.Status,
		&lat,
		&lng,
		&locatedAt,
		&driver.JoinedAt,
	)
	if err != nil {
		return nil, err
	}

	driver.Phone = phone.String
	driver.Vehicle = vehicle.String
	driver.Plate = plate.String
	driver.Code = code.String
	driver.Lat = lat.Float64
	driver.Lng = lng.Float64
	if locatedAt.Valid {
		driver.LocatedAt = locatedAt.Time
	}

	return &driver, nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
