package domain

import "time"

// WithdrawalStatus represents the status of a driver payout request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pendiente"
	WithdrawalStatusProcessing WithdrawalStatus = "procesando"
	WithdrawalStatusCompleted  WithdrawalStatus = "completado"
	WithdrawalStatusRejected   WithdrawalStatus = "rechazado"
)

// Terminal reports whether the withdrawal reached a final status.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusRejected
}

// Withdrawal is a driver's request to cash out accumulated earnings,
// approved or rejected manually by office staff.
type Withdrawal struct {
	ID            string
	DriverID      string
	Amount        float64
	Method        string // payout method tag (e.g. bank, cash)
	MethodDetails string // serialized payout details
	Status        WithdrawalStatus
	ProcessedBy   string
	ProcessedAt   time.Time
	Notes         string
	CreatedAt     time.Time
}
