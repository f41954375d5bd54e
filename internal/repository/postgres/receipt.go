package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"transit/internal/domain"
	"transit/internal/repository"
)

// ReceiptRepository is a PostgreSQL implementation of repository.ReceiptRepository.
type ReceiptRepository struct {
	q Querier
}

// NewReceiptRepository creates a new PostgreSQL receipt repository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{q: db}
}

// NewReceiptRepositoryWithTx creates a receipt repository using a transaction.
func NewReceiptRepositoryWithTx(tx *sql.Tx) *ReceiptRepository {
	return &ReceiptRepository{q: tx}
}

const receiptColumns = `id, pago_id, numero_comprobante, qr_data, verificado, verificado_por, fecha_verificacion, created_at`

// Create persists a new receipt.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	query := `
		INSERT INTO comprobantes (id, pago_id, numero_comprobante, qr_data, verificado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		receipt.ID,
		receipt.PaymentID,
		receipt.Number,
		nullString(receipt.QRData),
		receipt.Verified,
		receipt.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a receipt by ID.
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM comprobantes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByPaymentID retrieves the receipt for a payment.
func (r *ReceiptRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM comprobantes WHERE pago_id = $1`
	return r.getOne(ctx, query, paymentID)
}

// MarkVerified records office verification of a receipt.
func (r *ReceiptRepository) MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error {
	query := `
		UPDATE comprobantes
		SET verificado = TRUE, verificado_por = $1, fecha_verificacion = $2
		WHERE id = $3
	`

	result, err := r.q.ExecContext(ctx, query, verifiedBy, at, id)
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

// NextNumber reserves the next unique receipt number from the comprobante
// sequence, formatted as COMP-YYYYMMDD-NNNNN.
func (r *ReceiptRepository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT nextval('comprobante_seq')`).Scan(&n); err != nil {
		return "", err
	}

	return fmt.Sprintf("COMP-%s-%05d", time.Now().Format("20060102"), n), nil
}

func (r *ReceiptRepository) getOne(ctx context.Context, query string, arg any) (*domain.Receipt, error) {
	var receipt domain.Receipt
	var qrData, verifiedBy sql.NullString
	var verifiedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&receipt.ID,
		&receipt.PaymentID,
		&receipt.Number,
		&qrData,
		&receipt.Verified,
		&verifiedBy,
		&verifiedAt,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	receipt.QRData = qrData.String
	receipt.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		receipt.VerifiedAt = verifiedAt.Time
	}

	return &receipt, nil
}

// Ensure ReceiptRepository implements repository.ReceiptRepository.
var _ repository.ReceiptRepository = (*ReceiptRepository)(nil)
