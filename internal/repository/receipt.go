package repository

import (
	"context"
	"time"

	"transit/internal/domain"
)

// ReceiptRepository defines the persistence operations for receipts.
type ReceiptRepository interface {
	// Create persists a new receipt.
	Create(ctx context.Context, receipt *domain.Receipt) error

	// GetByID retrieves a receipt by ID.
	GetByID(ctx context.Context, id string) (*domain.Receipt, error)

	// GetByPaymentID retrieves the receipt for a payment.
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Receipt, error)

	// MarkVerified records office verification of a receipt.
	MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error

	// NextNumber reserves the next unique receipt number.
	NextNumber(ctx context.Context) (string, error)
}
