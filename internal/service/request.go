package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/repository"
)

// RequestService handles the special-request manual workflow. After
// creation every transition is an explicit office action and records the
// acting office user.
type RequestService struct {
	requestRepo         repository.RequestRepository
	driverRepo          repository.DriverRepository
	notificationService *NotificationService
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	driverRepo repository.DriverRepository,
	notificationService *NotificationService,
) *RequestService {
	return &RequestService{
		requestRepo:         requestRepo,
		driverRepo:          driverRepo,
		notificationService: notificationService,
	}
}

// CreateRequestRequest contains the parameters for a new special request.
type CreateRequestRequest struct {
	Actor       domain.Actor
	PassengerID string // honored only for office-created requests
	Destination string
	TravelAt    time.Time
	Passengers  int
	Comments    string
}

// CreateRequest files a new special request in pending state.
func (s *RequestService) CreateRequest(ctx context.Context, req CreateRequestRequest) (*domain.SpecialRequest, error) {
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
	if req.Destination == "" {
		return nil, ErrInvalidRoute
	}
	if req.Passengers <= 0 {
		return nil, ErrInvalidSeats
	}

	request := &domain.SpecialRequest{
		ID:          uuid.New().String(),
		PassengerID: req.PassengerID,
		Destination: req.Destination,
		TravelAt:    req.TravelAt,
		Passengers:  req.Passengers,
		Comments:    req.Comments,
		Status:      domain.RequestStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// AssignRequestRequest contains the parameters for assigning a driver.
type AssignRequestRequest struct {
	Actor          domain.Actor
	RequestID      string
	DriverID       string
	EstimatedPrice float64
}

// AssignRequest attaches a driver and an estimated price to a pending
// request, moving it to assigned. Office only.
func (s *RequestService) AssignRequest(ctx context.Context, req AssignRequestRequest) (*domain.SpecialRequest, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.EstimatedPrice <= 0 {
		return nil, ErrInvalidAmount
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if request.Status != domain.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	if _, err := s.driverRepo.GetByID(ctx, req.DriverID); err != nil {
		return nil, err
	}

	request.Status = domain.RequestStatusAssigned
	request.AssignedDriverID = req.DriverID
	request.EstimatedPrice = req.EstimatedPrice
	request.AssignedBy = req.Actor.UserID

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRequestAssigned(ctx, request)
	}

	return request, nil
}

// TransitionRequestRequest contains the parameters for advancing a request.
type TransitionRequestRequest struct {
	Actor     domain.Actor
	RequestID string
	Status    domain.RequestStatus
}

// TransitionRequest advances an assigned request through confirmation,
// completion, or cancellation. Office only; terminal transitions record
// who closed the request and when.
func (s *RequestService) TransitionRequest(ctx context.Context, req TransitionRequestRequest) (*domain.SpecialRequest, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.RequestID == "" {
		return nil, ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if !requestEdgeAllowed(request.Status, req.Status) {
		return nil, ErrInvalidRequestTransition
	}

	request.Status = req.Status
	if req.Status.Terminal() {
		request.ClosedBy = req.Actor.UserID
		request.ClosedAt = time.Now()
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// requestEdgeAllowed encodes the manual workflow edges: forward one step at
// a time, cancellation from any non-terminal state.
func requestEdgeAllowed(from, to domain.RequestStatus) bool {
	if to == domain.RequestStatusCancelled {
		return !from.Terminal()
	}
	switch from {
	case domain.RequestStatusAssigned:
		return to == domain.RequestStatusConfirmed
	case domain.RequestStatusConfirmed:
		return to == domain.RequestStatusCompleted
	default:
		return false
	}
}

// GetRequest retrieves a special request by ID.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.SpecialRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	return s.requestRepo.GetByID(ctx, requestID)
}

// ListRequests retrieves requests visible to the actor: passengers see
// their own, office staff see everything.
func (s *RequestService) ListRequests(ctx context.Context, actor domain.Actor) ([]*domain.SpecialRequest, error) {
	switch actor.Role {
	case domain.RolePassenger:
		return s.requestRepo.ListByPassenger(ctx, actor.UserID)
	case domain.RoleOffice:
		return s.requestRepo.List(ctx)
	default:
		return nil, ErrNotAllowed
	}
}
