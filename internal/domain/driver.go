package domain

import "time"

// DriverStatus represents the current availability of a driver.
type DriverStatus string

const (
	DriverStatusAvailable    DriverStatus = "disponible"
	DriverStatusOnTrip       DriverStatus = "en_viaje"
	DriverStatusOutOfService DriverStatus = "fuera_servicio"
)

// Driver represents a union driver and their vehicle.
type Driver struct {
	ID         string
	Name       string
	Phone      string
	Vehicle    string
	Plate      string
	Capacity   int
	Code       string // union-assigned driver code
	Status     DriverStatus
	Lat        float64
	Lng        float64
	LocatedAt  time.Time // when the last position was reported
	JoinedAt   time.Time
}
