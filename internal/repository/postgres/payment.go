package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transit/internal/domain"
	"transit/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, viaje_id, pasajero_id, conductor_id, monto, metodo_pago, estado, referencia_externa, created_at`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO pagos (id, viaje_id, pasajero_id, conductor_id, monto, metodo_pago, estado, referencia_externa, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		nullString(payment.TripID),
		payment.PassengerID,
		payment.DriverID,
		payment.Amount,
		payment.Method,
		payment.Status,
		nullString(payment.ExternalRef),
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM pagos WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// UpdateStatus updates the status of a payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `UPDATE pagos SET estado = $1 WHERE id = $2`

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

// List retrieves recent payments across all users.
func (r *PaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM pagos ORDER BY created_at DESC LIMIT 200`
	return r.queryPayments(ctx, query)
}

// ListByPassenger retrieves a passenger's payments, newest first.
func (r *PaymentRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM pagos WHERE pasajero_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, passengerID)
}

// ListByDriver retrieves a driver's payments, newest first.
func (r *PaymentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM pagos WHERE conductor_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, driverID)
}

// TotalCompletedByDriver sums a driver's completed payments.
func (r *PaymentRepository) TotalCompletedByDriver(ctx context.Context, driverID string) (float64, error) {
	query := `SELECT COALESCE(SUM(monto), 0) FROM pagos WHERE conductor_id = $1 AND estado = $2`

	var total float64
	err := r.q.QueryRowContext(ctx, query, driverID, domain.PaymentStatusCompleted).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var tripID, externalRef sql.NullString

	err := row.Scan(
		&payment.ID,
		&tripID,
		&payment.PassengerID,
		&payment.DriverID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&externalRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.TripID = tripID.String
	payment.ExternalRef = externalRef.String

	return &payment, nil
}

// Ensure PaymentRepository implements repository.PaymentRepository.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
