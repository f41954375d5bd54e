package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"transit/internal/domain"
	"transit/internal/repository"
	"transit/internal/service"
)

func newTripService(tripRepo *MockTripRepository, driverRepo *MockDriverRepository, routeRepo *MockRouteRepository) *service.TripService {
	return service.NewTripService(nil, tripRepo, driverRepo, routeRepo, nil)
}

func seedFares(routeRepo *MockRouteRepository) {
	routeRepo.AddFare("Warnes", "Montero", 15)
	routeRepo.AddFare("Warnes", "Santa Cruz", 25)
}

// ──────────────────────────────────────────────
// CREATE TRIP
// ──────────────────────────────────────────────

func TestCreateTrip_PassengerPricedFromFareTable(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	routeRepo := NewMockRouteRepository()
	seedFares(routeRepo)

	svc := newTripService(tripRepo, driverRepo, routeRepo)

	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Actor:       domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		Origin:      "Warnes",
		Destination: "Montero",
		Seats:       2,
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	if trip.PassengerID != "pass-1" {
		t.Errorf("expected passenger pass-1, got %s", trip.PassengerID)
	}
	if trip.Amount != 30 {
		t.Errorf("expected amount 30 (15 x 2 seats), got %.2f", trip.Amount)
	}
	if trip.Status != domain.TripStatusPending {
		t.Errorf("expected status %s, got %s", domain.TripStatusPending, trip.Status)
	}
	if tripRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", tripRepo.CreateCallCount)
	}
}

func TestCreateTrip_OfficeOnBehalfOfPassenger(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	routeRepo := NewMockRouteRepository()
	seedFares(routeRepo)

	svc := newTripService(tripRepo, NewMockDriverRepository(), routeRepo)

	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Actor:       domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		PassengerID: "pass-7",
		Origin:      "Warnes",
		Destination: "Santa Cruz",
		Seats:       1,
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	if trip.PassengerID != "pass-7" {
		t.Errorf("expected passenger pass-7, got %s", trip.PassengerID)
	}
}

func TestCreateTrip_PassengerIDOverriddenForSelf(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	routeRepo := NewMockRouteRepository()
	seedFares(routeRepo)

	svc := newTripService(tripRepo, NewMockDriverRepository(), routeRepo)

	// A passenger cannot book in someone else's name.
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Actor:       domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		PassengerID: "pass-other",
		Origin:      "Warnes",
		Destination: "Montero",
		Seats:       1,
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	if trip.PassengerID != "pass-1" {
		t.Errorf("expected passenger pass-1, got %s", trip.PassengerID)
	}
}

func TestCreateTrip_UnknownRoute(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	seedFares(routeRepo)

	svc := newTripService(NewMockTripRepository(), NewMockDriverRepository(), routeRepo)

	_, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Actor:       domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		Origin:      "Warnes",
		Destination: "La Paz",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrNoFareForRoute) {
		t.Errorf("expected ErrNoFareForRoute, got %v", err)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	seedFares(routeRepo)

	svc := newTripService(NewMockTripRepository(), NewMockDriverRepository(), routeRepo)
	passenger := domain.Actor{UserID: "pass-1", Role: domain.RolePassenger}

	tests := []struct {
		name    string
		req     service.CreateTripRequest
		wantErr error
	}{
		{
			name:    "driver cannot create trips",
			req:     service.CreateTripRequest{Actor: domain.Actor{UserID: "drv-1", Role: domain.RoleDriver}, Origin: "Warnes", Destination: "Montero", Seats: 1},
			wantErr: service.ErrNotAllowed,
		},
		{
			name:    "empty origin",
			req:     service.CreateTripRequest{Actor: passenger, Destination: "Montero", Seats: 1},
			wantErr: service.ErrInvalidRoute,
		},
		{
			name:    "zero seats",
			req:     service.CreateTripRequest{Actor: passenger, Origin: "Warnes", Destination: "Montero"},
			wantErr: service.ErrInvalidSeats,
		},
		{
			name:    "office without passenger",
			req:     service.CreateTripRequest{Actor: domain.Actor{UserID: "office-1", Role: domain.RoleOffice}, Origin: "Warnes", Destination: "Montero", Seats: 1},
			wantErr: service.ErrInvalidPassengerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTrip(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// ──────────────────────────────────────────────
// ASSIGN DRIVER
// ──────────────────────────────────────────────

func TestAssignDriver_OfficeOnly(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", Status: domain.TripStatusPending})
	driverRepo.AddDriver(&domain.Driver{ID: "drv-1", Name: "Carlos", Status: domain.DriverStatusAvailable})

	svc := newTripService(tripRepo, driverRepo, NewMockRouteRepository())

	_, err := svc.AssignDriver(context.Background(), service.AssignDriverRequest{
		Actor:    domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		TripID:   "trip-1",
		DriverID: "drv-1",
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for passenger, got %v", err)
	}

	trip, err := svc.AssignDriver(context.Background(), service.AssignDriverRequest{
		Actor:    domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		TripID:   "trip-1",
		DriverID: "drv-1",
	})
	if err != nil {
		t.Fatalf("AssignDriver failed: %v", err)
	}
	if trip.DriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", trip.DriverID)
	}
}

func TestAssignDriver_NonPendingTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusConfirmed})
	driverRepo.AddDriver(&domain.Driver{ID: "drv-2", Status: domain.DriverStatusAvailable})

	svc := newTripService(tripRepo, driverRepo, NewMockRouteRepository())

	_, err := svc.AssignDriver(context.Background(), service.AssignDriverRequest{
		Actor:    domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		TripID:   "trip-1",
		DriverID: "drv-2",
	})
	if !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}
}

func TestAssignDriver_UnknownDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.AssignDriver(context.Background(), service.AssignDriverRequest{
		Actor:    domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		TripID:   "trip-1",
		DriverID: "drv-ghost",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ──────────────────────────────────────────────
// DRIVER TRANSITIONS
// ──────────────────────────────────────────────

func TestTripLifecycle_AssignedDriverAdvances(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	driverRepo := NewMockDriverRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusPending})
	driverRepo.AddDriver(&domain.Driver{ID: "drv-1", Status: domain.DriverStatusAvailable})

	svc := newTripService(tripRepo, driverRepo, NewMockRouteRepository())
	driver := domain.Actor{UserID: "drv-1", Role: domain.RoleDriver}
	req := service.TransitionRequest{Actor: driver, TripID: "trip-1"}

	trip, err := svc.ConfirmTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("ConfirmTrip failed: %v", err)
	}
	if trip.Status != domain.TripStatusConfirmed {
		t.Fatalf("expected status %s, got %s", domain.TripStatusConfirmed, trip.Status)
	}

	trip, err = svc.StartTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("StartTrip failed: %v", err)
	}
	if trip.Status != domain.TripStatusInProgress {
		t.Fatalf("expected status %s, got %s", domain.TripStatusInProgress, trip.Status)
	}
	if got := driverRepo.GetDriver("drv-1").Status; got != domain.DriverStatusOnTrip {
		t.Errorf("expected driver status %s after start, got %s", domain.DriverStatusOnTrip, got)
	}

	trip, err = svc.CompleteTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("CompleteTrip failed: %v", err)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Fatalf("expected status %s, got %s", domain.TripStatusCompleted, trip.Status)
	}
	if got := driverRepo.GetDriver("drv-1").Status; got != domain.DriverStatusAvailable {
		t.Errorf("expected driver status %s after completion, got %s", domain.DriverStatusAvailable, got)
	}
}

func TestTripTransition_WrongDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.ConfirmTrip(context.Background(), service.TransitionRequest{
		Actor:  domain.Actor{UserID: "drv-2", Role: domain.RoleDriver},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrDriverNotAssigned) {
		t.Errorf("expected ErrDriverNotAssigned, got %v", err)
	}
}

func TestTripTransition_UnassignedTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.ConfirmTrip(context.Background(), service.TransitionRequest{
		Actor:  domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrDriverNotAssigned) {
		t.Errorf("expected ErrDriverNotAssigned, got %v", err)
	}
}

func TestTripTransition_SkippingStates(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	// Pending cannot jump straight to in progress.
	_, err := svc.StartTrip(context.Background(), service.TransitionRequest{
		Actor:  domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}
}

func TestTripTransition_TerminalTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusCompleted})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.ConfirmTrip(context.Background(), service.TransitionRequest{
		Actor:  domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestCancelTrip_PassengerPendingOnly(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", Status: domain.TripStatusPending})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusConfirmed})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())
	passenger := domain.Actor{UserID: "pass-1", Role: domain.RolePassenger}

	trip, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		Actor:  passenger,
		TripID: "trip-1",
		Reason: "cambio de planes",
	})
	if err != nil {
		t.Fatalf("CancelTrip failed: %v", err)
	}
	if trip.Status != domain.TripStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.TripStatusCancelled, trip.Status)
	}
	if trip.CancelledBy != "pass-1" {
		t.Errorf("expected cancelled by pass-1, got %s", trip.CancelledBy)
	}
	if trip.CancelReason != "cambio de planes" {
		t.Errorf("unexpected cancel reason %q", trip.CancelReason)
	}
	if trip.CancelledAt.IsZero() {
		t.Error("expected cancellation time to be recorded")
	}

	// Once confirmed, the passenger can no longer back out on their own.
	_, err = svc.CancelTrip(context.Background(), service.CancelTripRequest{Actor: passenger, TripID: "trip-2"})
	if !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}
}

func TestCancelTrip_NotOwnTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		Actor:  domain.Actor{UserID: "pass-2", Role: domain.RolePassenger},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrNotTripPassenger) {
		t.Errorf("expected ErrNotTripPassenger, got %v", err)
	}
}

func TestCancelTrip_OfficeCancelsConfirmed(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusConfirmed})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	trip, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		Actor:  domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		TripID: "trip-1",
		Reason: "conductor no disponible",
	})
	if err != nil {
		t.Fatalf("CancelTrip failed: %v", err)
	}
	if trip.CancelledBy != "office-1" {
		t.Errorf("expected cancelled by office-1, got %s", trip.CancelledBy)
	}
}

func TestCancelTrip_CompletedTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusCompleted})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	_, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		Actor:  domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		TripID: "trip-1",
	})
	if !errors.Is(err, service.ErrInvalidTripTransition) {
		t.Errorf("expected ErrInvalidTripTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// LISTING
// ──────────────────────────────────────────────

func TestListTrips_ScopedByRole(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", PassengerID: "pass-1", DriverID: "drv-1", Status: domain.TripStatusCompleted})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", PassengerID: "pass-2", DriverID: "drv-1", Status: domain.TripStatusPending})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-3", PassengerID: "pass-1", DriverID: "drv-2", Status: domain.TripStatusPending})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	own, err := svc.ListTrips(context.Background(), domain.Actor{UserID: "pass-1", Role: domain.RolePassenger})
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("expected 2 passenger trips, got %d", len(own))
	}

	driven, err := svc.ListTrips(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(driven) != 2 {
		t.Errorf("expected 2 driver trips, got %d", len(driven))
	}

	all, err := svc.ListTrips(context.Background(), domain.Actor{UserID: "office-1", Role: domain.RoleOffice})
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 trips for office, got %d", len(all))
	}
}

func TestListDriverTripsToday(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tripRepo := NewMockTripRepository()
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", DriverID: "drv-1", DepartAt: now, Status: domain.TripStatusConfirmed})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", DriverID: "drv-1", DepartAt: now.Add(-48 * time.Hour), Status: domain.TripStatusCompleted})

	svc := newTripService(tripRepo, NewMockDriverRepository(), NewMockRouteRepository())

	trips, err := svc.ListDriverTripsToday(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("ListDriverTripsToday failed: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip today, got %d", len(trips))
	}
	if trips[0].ID != "trip-1" {
		t.Errorf("expected trip-1, got %s", trips[0].ID)
	}
}
