package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/observability"
	"transit/internal/repository"
)

// DriverLocationStore indexes driver positions for radius queries.
type DriverLocationStore interface {
	UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error
	NearbyDrivers(ctx context.Context, lat, lng, radiusKM float64) ([]string, error)
}

// LocationBroadcaster pushes position updates to live subscribers.
type LocationBroadcaster interface {
	BroadcastLocation(driverID string, lat, lng float64, at time.Time)
}

// DriverService handles driver registration, availability, and live
// location reporting.
type DriverService struct {
	driverRepo    repository.DriverRepository
	locationStore DriverLocationStore
	broadcaster   LocationBroadcaster
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	driverRepo repository.DriverRepository,
	locationStore DriverLocationStore,
	broadcaster LocationBroadcaster,
) *DriverService {
	return &DriverService{
		driverRepo:    driverRepo,
		locationStore: locationStore,
		broadcaster:   broadcaster,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	Actor    domain.Actor
	Name     string
	Phone    string
	Vehicle  string
	Plate    string
	Capacity int
	Code     string
}

// RegisterDriver adds a driver to the roster. Office only. New drivers
// start out of service until they report availability themselves.
func (s *DriverService) RegisterDriver(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.Name == "" {
		return nil, ErrInvalidDriverID
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidSeats
	}

	driver := &domain.Driver{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Phone:    req.Phone,
		Vehicle:  req.Vehicle,
		Plate:    req.Plate,
		Capacity: req.Capacity,
		Code:     req.Code,
		Status:   domain.DriverStatusOutOfService,
		JoinedAt: time.Now(),
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// SetStatus updates a driver's availability. Drivers may only change their
// own status; office staff may change anyone's.
func (s *DriverService) SetStatus(ctx context.Context, actor domain.Actor, driverID string, status domain.DriverStatus) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	switch status {
	case domain.DriverStatusAvailable, domain.DriverStatusOnTrip, domain.DriverStatusOutOfService:
	default:
		return ErrInvalidTripTransition
	}

	switch {
	case actor.Is(domain.RoleOffice):
	case actor.Is(domain.RoleDriver) && actor.UserID == driverID:
	default:
		return ErrNotAllowed
	}

	return s.driverRepo.UpdateStatus(ctx, driverID, status)
}

// ReportLocation records a driver's current position and fans it out to
// the geo index and live subscribers. Drivers report only for themselves.
func (s *DriverService) ReportLocation(ctx context.Context, actor domain.Actor, lat, lng float64) error {
	if !actor.Is(domain.RoleDriver) {
		return ErrNotAllowed
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidLocation
	}

	now := time.Now()
	if err := s.driverRepo.UpdateLocation(ctx, actor.UserID, lat, lng, now); err != nil {
		return err
	}

	if s.locationStore != nil {
		if err := s.locationStore.UpdateDriverLocation(ctx, actor.UserID, lat, lng); err != nil {
			return err
		}
	}

	observability.LocationUpdatesTotal.Inc()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLocation(actor.UserID, lat, lng, now)
	}

	return nil
}

// Nearby returns available drivers within radiusKM of the given point,
// using the geo index when present and falling back to the full roster.
func (s *DriverService) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]*domain.Driver, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidLocation
	}
	if radiusKM <= 0 {
		radiusKM = defaultNearbyRadiusKM
	}

	if s.locationStore == nil {
		return s.driverRepo.ListAvailable(ctx)
	}

	ids, err := s.locationStore.NearbyDrivers(ctx, lat, lng, radiusKM)
	if err != nil {
		return nil, err
	}

	drivers := make([]*domain.Driver, 0, len(ids))
	for _, id := range ids {
		driver, err := s.driverRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if driver.Status == domain.DriverStatusAvailable {
			drivers = append(drivers, driver)
		}
	}

	return drivers, nil
}

const defaultNearbyRadiusKM = 5.0

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.driverRepo.GetByID(ctx, driverID)
}

// ListDrivers retrieves all registered drivers.
func (s *DriverService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.List(ctx)
}

// ListAvailableDrivers retrieves drivers currently reporting as available.
func (s *DriverService) ListAvailableDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.ListAvailable(ctx)
}
