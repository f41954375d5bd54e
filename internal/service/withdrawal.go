package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/observability"
	"transit/internal/repository"
)

// WithdrawalService handles driver payout requests. Balances are derived,
// not stored: completed payment totals minus withdrawals that are still
// counting against the driver.
type WithdrawalService struct {
	withdrawalRepo      repository.WithdrawalRepository
	paymentRepo         repository.PaymentRepository
	notificationService *NotificationService
}

// NewWithdrawalService creates a new WithdrawalService.
func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	paymentRepo repository.PaymentRepository,
	notificationService *NotificationService,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo:      withdrawalRepo,
		paymentRepo:         paymentRepo,
		notificationService: notificationService,
	}
}

// CreateWithdrawalRequest contains the parameters for a new withdrawal.
type CreateWithdrawalRequest struct {
	Actor         domain.Actor
	Amount        float64
	Method        string
	MethodDetails string
}

// CreateWithdrawal files a payout request for the acting driver. The
// requested amount must not exceed the driver's available balance.
func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, req CreateWithdrawalRequest) (*domain.Withdrawal, error) {
	if !req.Actor.Is(domain.RoleDriver) {
		return nil, ErrNotAllowed
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	available, err := s.Balance(ctx, req.Actor.UserID)
	if err != nil {
		return nil, err
	}
	if req.Amount > available {
		return nil, ErrInsufficientBalance
	}

	withdrawal := &domain.Withdrawal{
		ID:            uuid.New().String(),
		DriverID:      req.Actor.UserID,
		Amount:        req.Amount,
		Method:        req.Method,
		MethodDetails: req.MethodDetails,
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// Balance returns the amount a driver can still withdraw: completed
// payment earnings minus pending, processing, and completed withdrawals.
func (s *WithdrawalService) Balance(ctx context.Context, driverID string) (float64, error) {
	if driverID == "" {
		return 0, ErrInvalidDriverID
	}

	earned, err := s.paymentRepo.TotalCompletedByDriver(ctx, driverID)
	if err != nil {
		return 0, err
	}

	held, err := s.withdrawalRepo.TotalActiveByDriver(ctx, driverID)
	if err != nil {
		return 0, err
	}

	return earned - held, nil
}

// ProcessWithdrawalRequest contains the parameters for an office decision.
type ProcessWithdrawalRequest struct {
	Actor        domain.Actor
	WithdrawalID string
	Status       domain.WithdrawalStatus
	Notes        string
}

// ProcessWithdrawal records an office decision on a withdrawal. Allowed
// targets are processing, completed, and rejected; requests already in a
// terminal state cannot be reprocessed.
func (s *WithdrawalService) ProcessWithdrawal(ctx context.Context, req ProcessWithdrawalRequest) (*domain.Withdrawal, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.WithdrawalID == "" {
		return nil, ErrInvalidWithdrawalID
	}

	switch req.Status {
	case domain.WithdrawalStatusProcessing, domain.WithdrawalStatusCompleted, domain.WithdrawalStatusRejected:
	default:
		return nil, ErrInvalidRequestTransition
	}

	withdrawal, err := s.withdrawalRepo.GetByID(ctx, req.WithdrawalID)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status.Terminal() {
		return nil, ErrWithdrawalProcessed
	}
	if req.Status == domain.WithdrawalStatusProcessing && withdrawal.Status != domain.WithdrawalStatusPending {
		return nil, ErrInvalidRequestTransition
	}

	withdrawal.Status = req.Status
	withdrawal.ProcessedBy = req.Actor.UserID
	withdrawal.ProcessedAt = time.Now()
	withdrawal.Notes = req.Notes

	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, err
	}

	observability.WithdrawalsProcessedTotal.WithLabelValues(string(req.Status)).Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyWithdrawalProcessed(ctx, withdrawal)
	}

	return withdrawal, nil
}

// GetWithdrawal retrieves a withdrawal by ID.
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	if withdrawalID == "" {
		return nil, ErrInvalidWithdrawalID
	}

	return s.withdrawalRepo.GetByID(ctx, withdrawalID)
}

// ListWithdrawals retrieves withdrawals visible to the actor: drivers see
// their own, office staff see the pending queue.
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, actor domain.Actor) ([]*domain.Withdrawal, error) {
	switch actor.Role {
	case domain.RoleDriver:
		return s.withdrawalRepo.ListByDriver(ctx, actor.UserID)
	case domain.RoleOffice:
		return s.withdrawalRepo.ListPending(ctx)
	default:
		return nil, ErrNotAllowed
	}
}
