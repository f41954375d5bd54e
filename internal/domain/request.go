package domain

import "time"

// RequestStatus represents the status of a special request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pendiente"
	RequestStatusAssigned  RequestStatus = "asignado"
	RequestStatusConfirmed RequestStatus = "confirmado"
	RequestStatusCompleted RequestStatus = "completado"
	RequestStatusCancelled RequestStatus = "cancelado"
)

// Terminal reports whether the request status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// SpecialRequest is an out-of-route trip request handled manually by the office.
// All transitions after creation are explicit office actions.
type SpecialRequest struct {
	ID               string
	PassengerID      string
	Destination      string
	TravelAt         time.Time
	Passengers       int
	Comments         string
	Status           RequestStatus
	AssignedDriverID string
	EstimatedPrice   float64
	AssignedBy       string // office user who assigned the driver
	ClosedBy         string // office user who completed or cancelled
	ClosedAt         time.Time
	CreatedAt        time.Time
}
