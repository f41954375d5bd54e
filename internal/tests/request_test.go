package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"transit/internal/domain"
	"transit/internal/service"
)

func newRequestService(requestRepo *MockRequestRepository, driverRepo *MockDriverRepository) *service.RequestService {
	return service.NewRequestService(requestRepo, driverRepo, nil)
}

// ──────────────────────────────────────────────
// CREATE
// ──────────────────────────────────────────────

func TestCreateRequest_Passenger(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	svc := newRequestService(requestRepo, NewMockDriverRepository())

	req, err := svc.CreateRequest(context.Background(), service.CreateRequestRequest{
		Actor:       domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		Destination: "Okinawa",
		TravelAt:    time.Now().Add(48 * time.Hour),
		Passengers:  4,
		Comments:    "con equipaje",
	})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if req.PassengerID != "pass-1" {
		t.Errorf("expected passenger pass-1, got %s", req.PassengerID)
	}
	if req.Status != domain.RequestStatusPending {
		t.Errorf("expected status %s, got %s", domain.RequestStatusPending, req.Status)
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	t.Parallel()

	svc := newRequestService(NewMockRequestRepository(), NewMockDriverRepository())
	passenger := domain.Actor{UserID: "pass-1", Role: domain.RolePassenger}

	_, err := svc.CreateRequest(context.Background(), service.CreateRequestRequest{
		Actor:      passenger,
		Passengers: 2,
	})
	if !errors.Is(err, service.ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute without destination, got %v", err)
	}

	_, err = svc.CreateRequest(context.Background(), service.CreateRequestRequest{
		Actor:       domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		Destination: "Okinawa",
		Passengers:  2,
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed for driver, got %v", err)
	}
}

// ──────────────────────────────────────────────
// ASSIGN
// ──────────────────────────────────────────────

func TestAssignRequest_RecordsOfficeUser(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	driverRepo := NewMockDriverRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", PassengerID: "pass-1", Destination: "Okinawa", Status: domain.RequestStatusPending})
	driverRepo.AddDriver(&domain.Driver{ID: "drv-1", Name: "Carlos", Status: domain.DriverStatusAvailable})

	svc := newRequestService(requestRepo, driverRepo)

	req, err := svc.AssignRequest(context.Background(), service.AssignRequestRequest{
		Actor:          domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		RequestID:      "req-1",
		DriverID:       "drv-1",
		EstimatedPrice: 250,
	})
	if err != nil {
		t.Fatalf("AssignRequest failed: %v", err)
	}

	if req.Status != domain.RequestStatusAssigned {
		t.Errorf("expected status %s, got %s", domain.RequestStatusAssigned, req.Status)
	}
	if req.AssignedDriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", req.AssignedDriverID)
	}
	if req.EstimatedPrice != 250 {
		t.Errorf("expected estimated price 250, got %.2f", req.EstimatedPrice)
	}
	if req.AssignedBy != "office-1" {
		t.Errorf("expected assigned by office-1, got %s", req.AssignedBy)
	}
}

func TestAssignRequest_OfficeOnly(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", Status: domain.RequestStatusPending})

	svc := newRequestService(requestRepo, NewMockDriverRepository())

	_, err := svc.AssignRequest(context.Background(), service.AssignRequestRequest{
		Actor:          domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		RequestID:      "req-1",
		DriverID:       "drv-1",
		EstimatedPrice: 100,
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed, got %v", err)
	}
}

func TestAssignRequest_NotPending(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	driverRepo := NewMockDriverRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", Status: domain.RequestStatusAssigned, AssignedDriverID: "drv-1"})
	driverRepo.AddDriver(&domain.Driver{ID: "drv-2"})

	svc := newRequestService(requestRepo, driverRepo)

	_, err := svc.AssignRequest(context.Background(), service.AssignRequestRequest{
		Actor:          domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		RequestID:      "req-1",
		DriverID:       "drv-2",
		EstimatedPrice: 100,
	})
	if !errors.Is(err, service.ErrRequestNotPending) {
		t.Errorf("expected ErrRequestNotPending, got %v", err)
	}
}

// ──────────────────────────────────────────────
// TRANSITIONS
// ──────────────────────────────────────────────

func TestTransitionRequest_AssignedToCompleted(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", Status: domain.RequestStatusAssigned, AssignedDriverID: "drv-1"})

	svc := newRequestService(requestRepo, NewMockDriverRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	req, err := svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:     office,
		RequestID: "req-1",
		Status:    domain.RequestStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("TransitionRequest failed: %v", err)
	}
	if req.Status != domain.RequestStatusConfirmed {
		t.Fatalf("expected status %s, got %s", domain.RequestStatusConfirmed, req.Status)
	}
	if req.ClosedBy != "" {
		t.Error("confirmation should not record a closer")
	}

	req, err = svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:     office,
		RequestID: "req-1",
		Status:    domain.RequestStatusCompleted,
	})
	if err != nil {
		t.Fatalf("TransitionRequest failed: %v", err)
	}
	if req.Status != domain.RequestStatusCompleted {
		t.Fatalf("expected status %s, got %s", domain.RequestStatusCompleted, req.Status)
	}
	if req.ClosedBy != "office-1" {
		t.Errorf("expected closed by office-1, got %s", req.ClosedBy)
	}
	if req.ClosedAt.IsZero() {
		t.Error("expected closing time to be recorded")
	}
}

func TestTransitionRequest_CancelFromPending(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", Status: domain.RequestStatusPending})

	svc := newRequestService(requestRepo, NewMockDriverRepository())

	req, err := svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:     domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		RequestID: "req-1",
		Status:    domain.RequestStatusCancelled,
	})
	if err != nil {
		t.Fatalf("TransitionRequest failed: %v", err)
	}
	if req.Status != domain.RequestStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.RequestStatusCancelled, req.Status)
	}
	if req.ClosedBy != "office-1" {
		t.Errorf("expected closed by office-1, got %s", req.ClosedBy)
	}
}

func TestTransitionRequest_IllegalEdges(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-pending", Status: domain.RequestStatusPending})
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-done", Status: domain.RequestStatusCompleted})

	svc := newRequestService(requestRepo, NewMockDriverRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	// Pending cannot be confirmed without a driver assignment.
	_, err := svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:     office,
		RequestID: "req-pending",
		Status:    domain.RequestStatusConfirmed,
	})
	if !errors.Is(err, service.ErrInvalidRequestTransition) {
		t.Errorf("expected ErrInvalidRequestTransition, got %v", err)
	}

	// Completed requests cannot be cancelled.
	_, err = svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:     office,
		RequestID: "req-done",
		Status:    domain.RequestStatusCancelled,
	})
	if !errors.Is(err, service.ErrInvalidRequestTransition) {
		t.Errorf("expected ErrInvalidRequestTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// LISTING
// ──────────────────────────────────────────────

func TestListRequests_ScopedByRole(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-1", PassengerID: "pass-1", Status: domain.RequestStatusPending})
	requestRepo.AddRequest(&domain.SpecialRequest{ID: "req-2", PassengerID: "pass-2", Status: domain.RequestStatusPending})

	svc := newRequestService(requestRepo, NewMockDriverRepository())

	own, err := svc.ListRequests(context.Background(), domain.Actor{UserID: "pass-1", Role: domain.RolePassenger})
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("expected 1 passenger request, got %d", len(own))
	}

	all, err := svc.ListRequests(context.Background(), domain.Actor{UserID: "office-1", Role: domain.RoleOffice})
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 requests for office, got %d", len(all))
	}

	_, err = svc.ListRequests(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed for driver, got %v", err)
	}
}

func TestRequest_EmptyIDRejected(t *testing.T) {
	t.Parallel()

	svc := newRequestService(NewMockRequestRepository(), NewMockDriverRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	if _, err := svc.GetRequest(context.Background(), ""); !errors.Is(err, service.ErrInvalidRequestID) {
		t.Errorf("expected ErrInvalidRequestID, got %v", err)
	}

	_, err := svc.TransitionRequest(context.Background(), service.TransitionRequestRequest{
		Actor:  office,
		Status: domain.RequestStatusConfirmed,
	})
	if !errors.Is(err, service.ErrInvalidRequestID) {
		t.Errorf("expected ErrInvalidRequestID, got %v", err)
	}
}
