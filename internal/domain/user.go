package domain

import "time"

// Role tags a user with the operations they may invoke.
type Role string

const (
	RolePassenger Role = "pasajero"
	RoleDriver    Role = "conductor"
	RoleOffice    Role = "secretaria"
)

// User represents a registered account in the system.
type User struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Role      Role
	Active    bool
	CreatedAt time.Time
}

// Actor is the authenticated identity performing an operation.
// Identity and role come from the upstream auth collaborator and are
// re-validated before every state transition.
type Actor struct {
	UserID string
	Role   Role
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}
