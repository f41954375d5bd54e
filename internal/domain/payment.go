package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pendiente"
	PaymentStatusCompleted PaymentStatus = "completado"
	PaymentStatusFailed    PaymentStatus = "fallido"
	PaymentStatusRefunded  PaymentStatus = "reembolsado"
)

// Terminal reports whether the payment reached a final status.
// Refund is the only exit from a terminal status and is handled explicitly.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentStatusPending
}

// PaymentMethod tags how a payment is collected.
type PaymentMethod string

const (
	PaymentMethodQR       PaymentMethod = "QR"
	PaymentMethodCash     PaymentMethod = "efectivo"
	PaymentMethodTransfer PaymentMethod = "transferencia"
)

// Payment represents a monetary transaction tied to one trip.
type Payment struct {
	ID          string
	TripID      string // may be empty for office-mediated collections
	PassengerID string
	DriverID    string
	Amount      float64
	Method      PaymentMethod
	Status      PaymentStatus
	ExternalRef string
	CreatedAt   time.Time
}

// QRPayload is the simulated bank transfer slip shown to the passenger.
type QRPayload struct {
	Bank      string  `json:"banco"`
	Account   string  `json:"cuenta"`
	Payee     string  `json:"titular"`
	Amount    float64 `json:"monto"`
	Concept   string  `json:"concepto"`
	Reference string  `json:"referencia"`
}
