package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transit/internal/domain"
	"transit/internal/repository"
)

// WithdrawalRepository is a PostgreSQL implementation of repository.WithdrawalRepository.
type WithdrawalRepository struct {
	q Querier
}

// NewWithdrawalRepository creates a new PostgreSQL withdrawal repository.
func NewWithdrawalRepository(db *sql.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db}
}

const withdrawalColumns = `id, conductor_id, monto, metodo, datos_metodo, estado, procesado_por, fecha_procesado, notas, created_at`

// Create persists a new withdrawal request.
func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	query := `
		INSERT INTO retiros (id, conductor_id, monto, metodo, datos_metodo, estado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		w.ID,
		w.DriverID,
		w.Amount,
		w.Method,
		nullString(w.MethodDetails),
		w.Status,
		w.CreatedAt,
	)

	return err
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM retiros WHERE id = $1`

	w, err := scanWithdrawal(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return w, nil
}

// Update updates an existing withdrawal.
func (r *WithdrawalRepository) Update(ctx context.Context, w *domain.Withdrawal) error {
	query := `
		UPDATE retiros
		SET estado = $1, procesado_por = $2, fecha_procesado = $3, notas = $4
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		w.Status,
		nullString(w.ProcessedBy),
		nullTime(w.ProcessedAt),
		nullString(w.Notes),
		w.ID,
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

// ListByDriver retrieves a driver's withdrawals, newest first.
func (r *WithdrawalRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM retiros WHERE conductor_id = $1 ORDER BY created_at DESC`
	return r.queryWithdrawals(ctx, query, driverID)
}

// ListPending retrieves withdrawals awaiting office action, newest first.
func (r *WithdrawalRepository) ListPending(ctx context.Context) ([]*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM retiros WHERE estado = $1 ORDER BY created_at DESC`
	return r.queryWithdrawals(ctx, query, domain.WithdrawalStatusPending)
}

// TotalActiveByDriver sums a driver's withdrawals that are not rejected.
func (r *WithdrawalRepository) TotalActiveByDriver(ctx context.Context, driverID string) (float64, error) {
	query := `SELECT COALESCE(SUM(monto), 0) FROM retiros WHERE conductor_id = $1 AND estado != $2`

	var total float64
	err := r.q.QueryRowContext(ctx, query, driverID, domain.WithdrawalStatusRejected).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *WithdrawalRepository) queryWithdrawals(ctx context.Context, query string, args ...any) ([]*domain.Withdrawal, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}

	return withdrawals, rows.Err()
}

func scanWithdrawal(row rowScanner) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	var methodDetails, processedBy, notes sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(
		&w.ID,
		&w.DriverID,
		&w.Amount,
		&w.Method,
		&methodDetails,
		&w.Status,
		&processedBy,
		&processedAt,
		&notes,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.MethodDetails = methodDetails.String
	w.ProcessedBy = processedBy.String
	w.Notes = notes.String
	if processedAt.Valid {
		w.ProcessedAt = processedAt.Time
	}

	return &w, nil
}

// Ensure WithdrawalRepository implements repository.WithdrawalRepository.
var _ repository.WithdrawalRepository = (*WithdrawalRepository)(nil)
