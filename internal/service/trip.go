package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/observability"
	"transit/internal/repository"
	"transit/internal/repository/postgres"
)

// TripService handles the trip lifecycle state machine.
type TripService struct {
	db                  *sql.DB
	tripRepo            repository.TripRepository
	driverRepo          repository.DriverRepository
	routeRepo           repository.RouteRepository
	notificationService *NotificationService
}

// NewTripService creates a new TripService.
func NewTripService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	driverRepo repository.DriverRepository,
	routeRepo repository.RouteRepository,
	notificationService *NotificationService,
) *TripService {
	return &TripService{
		db:                  db,
		tripRepo:            tripRepo,
		driverRepo:          driverRepo,
		routeRepo:           routeRepo,
		notificationService: notificationService,
	}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	Actor       domain.Actor
	PassengerID string // honored only for office-created trips
	DriverID    string // optional at creation
	Origin      string
	Destination string
	DepartAt    time.Time
	Seats       int
}

// CreateTrip creates a trip in pending state. Passengers create their own
// trips; office staff may create one on a passenger's behalf. The total
// amount is fixed at creation from the route fare table.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	switch req.Actor.Role {
	case domain.RolePassenger:
		req.PassengerID = req.Actor.UserID
	case domain.RoleOffice:
	default:
		return nil, ErrNotAllowed
	}

	if req.PassengerID == "" {
		return nil, ErrInvalidPassengerID
	}
	if req.Origin == "" || req.Destination == "" {
		return nil, ErrInvalidRoute
	}
	if req.Seats <= 0 {
		return nil, ErrInvalidSeats
	}

	fare, err := s.routeRepo.GetFare(ctx, req.Origin, req.Destination)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNoFareForRoute
		}
		return nil, err
	}

	if req.DriverID != "" {
		if _, err := s.driverRepo.GetByID(ctx, req.DriverID); err != nil {
			return nil, err
		}
	}

	departAt := req.DepartAt
	if departAt.IsZero() {
		departAt = time.Now()
	}

	trip := &domain.Trip{
		ID:          uuid.New().String(),
		PassengerID: req.PassengerID,
		DriverID:    req.DriverID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartAt:    departAt,
		Seats:       req.Seats,
		Amount:      fare * float64(req.Seats),
		Status:      domain.TripStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// AssignDriverRequest contains the parameters for assigning a driver.
type AssignDriverRequest struct {
	Actor    domain.Actor
	TripID   string
	DriverID string
}

// AssignDriver attaches a driver to a pending trip. Office only.
func (s *TripService) AssignDriver(ctx context.Context, req AssignDriverRequest) (*domain.Trip, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusPending {
		return nil, ErrInvalidTripTransition
	}

	if _, err := s.driverRepo.GetByID(ctx, req.DriverID); err != nil {
		return nil, err
	}

	trip.DriverID = req.DriverID
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// TransitionRequest identifies a trip and the driver acting on it.
type TransitionRequest struct {
	Actor  domain.Actor
	TripID string
}

// ConfirmTrip advances a pending trip to confirmed. The assigned driver only.
func (s *TripService) ConfirmTrip(ctx context.Context, req TransitionRequest) (*domain.Trip, error) {
	return s.driverAdvance(ctx, req, domain.TripStatusConfirmed)
}

// StartTrip advances a confirmed trip to in progress and moves the driver
// to on-trip status in the same transaction.
func (s *TripService) StartTrip(ctx context.Context, req TransitionRequest) (*domain.Trip, error) {
	return s.driverAdvance(ctx, req, domain.TripStatusInProgress)
}

// CompleteTrip advances an in-progress trip to completed and returns the
// driver to available. Completion makes the passenger rating-eligible.
func (s *TripService) CompleteTrip(ctx context.Context, req TransitionRequest) (*domain.Trip, error) {
	return s.driverAdvance(ctx, req, domain.TripStatusCompleted)
}

// driverAdvance applies a forward edge on behalf of the assigned driver.
func (s *TripService) driverAdvance(ctx context.Context, req TransitionRequest, next domain.TripStatus) (*domain.Trip, error) {
	if !req.Actor.Is(domain.RoleDriver) {
		return nil, ErrNotAllowed
	}
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if trip.DriverID == "" || trip.DriverID != req.Actor.UserID {
		return nil, ErrDriverNotAssigned
	}

	if !trip.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTripTransition
	}

	trip.Status = next

	// Starting and completing also flip the driver's availability; keep
	// both rows consistent in one transaction.
	var driverStatus domain.DriverStatus
	switch next {
	case domain.TripStatusInProgress:
		driverStatus = domain.DriverStatusOnTrip
	case domain.TripStatusCompleted:
		driverStatus = domain.DriverStatusAvailable
	}

	if driverStatus == "" || s.db == nil {
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return nil, err
		}
		if driverStatus != "" {
			if err := s.driverRepo.UpdateStatus(ctx, trip.DriverID, driverStatus); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.updateTripAndDriver(ctx, trip, driverStatus); err != nil {
			return nil, err
		}
	}

	observability.TripTransitionsTotal.WithLabelValues(string(next)).Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripStatus(ctx, trip)
	}

	return trip, nil
}

func (s *TripService) updateTripAndDriver(ctx context.Context, trip *domain.Trip, driverStatus domain.DriverStatus) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	if err = txTripRepo.Update(ctx, trip); err != nil {
		return err
	}

	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)
	if err = txDriverRepo.UpdateStatus(ctx, trip.DriverID, driverStatus); err != nil {
		return err
	}

	return tx.Commit()
}

// CancelTripRequest contains the parameters for cancelling a trip.
type CancelTripRequest struct {
	Actor  domain.Actor
	TripID string
	Reason string
}

// CancelTrip cancels a trip. Passengers may cancel their own pending trips;
// the assigned driver and office staff may cancel any non-terminal trip.
func (s *TripService) CancelTrip(ctx context.Context, req CancelTripRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if !trip.Status.CanTransitionTo(domain.TripStatusCancelled) {
		return nil, ErrInvalidTripTransition
	}

	switch req.Actor.Role {
	case domain.RolePassenger:
		if trip.PassengerID != req.Actor.UserID {
			return nil, ErrNotTripPassenger
		}
		if trip.Status != domain.TripStatusPending {
			return nil, ErrInvalidTripTransition
		}
	case domain.RoleDriver:
		if trip.DriverID != req.Actor.UserID {
			return nil, ErrDriverNotAssigned
		}
	case domain.RoleOffice:
	default:
		return nil, ErrNotAllowed
	}

	trip.Status = domain.TripStatusCancelled
	trip.CancelledAt = time.Now()
	trip.CancelledBy = req.Actor.UserID
	trip.CancelReason = req.Reason

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	observability.TripTransitionsTotal.WithLabelValues(string(domain.TripStatusCancelled)).Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripStatus(ctx, trip)
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// ListTrips retrieves trips visible to the actor: passengers and drivers
// see their own, office staff see recent trips across the union.
func (s *TripService) ListTrips(ctx context.Context, actor domain.Actor) ([]*domain.Trip, error) {
	switch actor.Role {
	case domain.RolePassenger:
		return s.tripRepo.ListByPassenger(ctx, actor.UserID)
	case domain.RoleDriver:
		return s.tripRepo.ListByDriver(ctx, actor.UserID)
	case domain.RoleOffice:
		return s.tripRepo.List(ctx)
	default:
		return nil, ErrNotAllowed
	}
}

// ListDriverTripsToday retrieves the acting driver's trips departing today.
func (s *TripService) ListDriverTripsToday(ctx context.Context, actor domain.Actor) ([]*domain.Trip, error) {
	if !actor.Is(domain.RoleDriver) {
		return nil, ErrNotAllowed
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24 * time.Hour)

	return s.tripRepo.ListByDriverBetween(ctx, actor.UserID, from, to)
}
