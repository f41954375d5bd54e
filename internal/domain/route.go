package domain

// Route is a fare-configured origin/destination pair served by the union.
type Route struct {
	ID               string
	Origin           string
	Destination      string
	BaseFare         float64 // per seat, local currency
	EstimatedMinutes int
	DistanceKm       float64
	Active           bool
}

// StopType classifies a named stop.
type StopType string

const (
	StopTypeStop      StopType = "parada"
	StopTypeTerminal  StopType = "terminal"
	StopTypeReference StopType = "punto_referencia"
)

// Stop is a named location with coordinates, consumed by the map collaborator.
type Stop struct {
	ID     string
	Name   string
	Lat    float64
	Lng    float64
	Type   StopType
	Active bool
}
