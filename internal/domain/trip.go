package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending    TripStatus = "pendiente"
	TripStatusConfirmed  TripStatus = "confirmado"
	TripStatusInProgress TripStatus = "en_curso"
	TripStatusCompleted  TripStatus = "completado"
	TripStatusCancelled  TripStatus = "cancelado"
)

// Terminal reports whether the status admits no further transitions.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// CanTransitionTo reports whether the status machine allows the edge from s to next.
// Forward edges only, plus cancellation from any non-terminal state.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if next == TripStatusCancelled {
		return !s.Terminal()
	}
	switch s {
	case TripStatusPending:
		return next == TripStatusConfirmed
	case TripStatusConfirmed:
		return next == TripStatusInProgress
	case TripStatusInProgress:
		return next == TripStatusCompleted
	default:
		return false
	}
}

// Trip represents a passenger's transport request between two named locations.
type Trip struct {
	ID           string
	PassengerID  string
	DriverID     string // empty until assigned
	Origin       string
	Destination  string
	DepartAt     time.Time
	Seats        int
	Amount       float64
	Status       TripStatus
	CancelledAt  time.Time
	CancelledBy  string
	CancelReason string
	CreatedAt    time.Time
}
