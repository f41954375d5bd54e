package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/observability"
	"transit/internal/repository"
	"transit/internal/repository/postgres"
)

// ConfirmLocker serializes confirmation attempts for a payment.
// Implemented by the redis lock store; nil disables locking.
type ConfirmLocker interface {
	AcquirePaymentLock(ctx context.Context, paymentID string, ttl time.Duration) (bool, error)
	ReleasePaymentLock(ctx context.Context, paymentID string) error
}

// CollectionAccount is the union's bank account shown on QR slips.
type CollectionAccount struct {
	Bank    string
	Account string
	Payee   string
}

const confirmLockTTL = 30 * time.Second

// PaymentService handles the payment and receipt workflow.
type PaymentService struct {
	db                  *sql.DB
	paymentRepo         repository.PaymentRepository
	receiptRepo         repository.ReceiptRepository
	routeRepo           repository.RouteRepository
	gateway             PaymentGateway
	locker              ConfirmLocker
	account             CollectionAccount
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	paymentRepo repository.PaymentRepository,
	receiptRepo repository.ReceiptRepository,
	routeRepo repository.RouteRepository,
	gateway PaymentGateway,
	locker ConfirmLocker,
	account CollectionAccount,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		db:                  db,
		paymentRepo:         paymentRepo,
		receiptRepo:         receiptRepo,
		routeRepo:           routeRepo,
		gateway:             gateway,
		locker:              locker,
		account:             account,
		notificationService: notificationService,
	}
}

// InitiatePaymentRequest contains the parameters for initiating a payment.
type InitiatePaymentRequest struct {
	Actor       domain.Actor
	TripID      string // optional, ad-hoc collections carry no trip
	PassengerID string
	DriverID    string
	Origin      string
	Destination string
	Seats       int
	Method      domain.PaymentMethod
}

// InitiatePaymentResponse contains the created payment and the bank slip.
type InitiatePaymentResponse struct {
	Payment *domain.Payment
	QR      *domain.QRPayload
}

// InitiatePayment looks up the route fare, multiplies by seats, and creates
// a pending payment with a generated external reference and simulated bank
// slip. A failed payment is retried by calling this again; the stale row is
// kept as audit trail.
func (s *PaymentService) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	switch req.Actor.Role {
	case domain.RolePassenger:
		// Passengers pay for themselves.
		req.PassengerID = req.Actor.UserID
	case domain.RoleOffice:
	default:
		return nil, ErrNotAllowed
	}

	if req.PassengerID == "" {
		return nil, ErrInvalidPassengerID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
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

	total := fare * float64(req.Seats)

	method := req.Method
	if method == "" {
		method = domain.PaymentMethodQR
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		TripID:      req.TripID,
		PassengerID: req.PassengerID,
		DriverID:    req.DriverID,
		Amount:      total,
		Method:      method,
		Status:      domain.PaymentStatusPending,
		ExternalRef: fmt.Sprintf("REF-%d", time.Now().UnixMilli()),
		CreatedAt:   time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	qr := &domain.QRPayload{
		Bank:      s.account.Bank,
		Account:   s.account.Account,
		Payee:     s.account.Payee,
		Amount:    total,
		Concept:   fmt.Sprintf("Viaje %s - %s", req.Origin, req.Destination),
		Reference: payment.ExternalRef,
	}

	return &InitiatePaymentResponse{Payment: payment, QR: qr}, nil
}

// ConfirmPaymentResponse contains the resolved payment and, on success, its receipt.
type ConfirmPaymentResponse struct {
	Payment *domain.Payment
	Receipt *domain.Receipt
}

// ConfirmPayment resolves a pending payment through the gateway. On approval
// the status change and the receipt insert run in one transaction, so a
// completed payment always has its receipt. On decline the payment moves to
// failed and no receipt is created.
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID string) (*ConfirmPaymentResponse, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	if s.locker != nil {
		ok, err := s.locker.AcquirePaymentLock(ctx, paymentID, confirmLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPaymentInProgress
		}
		defer func() {
			_ = s.locker.ReleasePaymentLock(context.WithoutCancel(ctx), paymentID)
		}()
	}

	// The status is read under the lock: a confirmation that waited for a
	// concurrent attempt must see its final status, not a stale pending row.
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	outcome, err := s.gateway.Confirm(ctx, payment)
	if err != nil {
		// Gateway unreachable: leave the payment pending for a later retry.
		return nil, err
	}

	if !outcome.Approved {
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed); err != nil {
			return nil, err
		}
		payment.Status = domain.PaymentStatusFailed
		observability.PaymentsTotal.WithLabelValues("declined").Inc()

		if s.notificationService != nil {
			_ = s.notificationService.NotifyPaymentFailed(ctx, payment)
		}

		return &ConfirmPaymentResponse{Payment: payment}, ErrPaymentDeclined
	}

	receipt, err := s.completeWithReceipt(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusCompleted
	observability.PaymentsTotal.WithLabelValues("completed").Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentSuccess(ctx, payment)
		_ = s.notificationService.NotifyReceiptReady(ctx, receipt, payment.PassengerID)
	}

	return &ConfirmPaymentResponse{Payment: payment, Receipt: receipt}, nil
}

// completeWithReceipt marks the payment completed and creates its receipt
// in a single transaction. Without a shared database handle it falls back
// to sequential writes against the wired repositories.
func (s *PaymentService) completeWithReceipt(ctx context.Context, payment *domain.Payment) (receipt *domain.Receipt, err error) {
	if s.db == nil {
		return s.completeSequential(ctx, payment)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txPaymentRepo := postgres.NewPaymentRepositoryWithTx(tx)
	txReceiptRepo := postgres.NewReceiptRepositoryWithTx(tx)

	if err = txPaymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
		return nil, err
	}

	number, err := txReceiptRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt = &domain.Receipt{
		ID:        uuid.New().String(),
		PaymentID: payment.ID,
		Number:    number,
		QRData:    s.receiptQRData(payment),
		CreatedAt: time.Now(),
	}

	if err = txReceiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (s *PaymentService) completeSequential(ctx context.Context, payment *domain.Payment) (*domain.Receipt, error) {
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
		return nil, err
	}

	number, err := s.receiptRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{
		ID:        uuid.New().String(),
		PaymentID: payment.ID,
		Number:    number,
		QRData:    s.receiptQRData(payment),
		CreatedAt: time.Now(),
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (s *PaymentService) receiptQRData(payment *domain.Payment) string {
	return fmt.Sprintf(`{"banco":%q,"cuenta":%q,"titular":%q,"monto":%.2f,"referencia":%q}`,
		s.account.Bank, s.account.Account, s.account.Payee, payment.Amount, payment.ExternalRef)
}

// RefundPayment moves a completed payment to refunded. Office only.
func (s *PaymentService) RefundPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	if !actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusCompleted {
		return nil, ErrPaymentNotRefundable
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusRefunded); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusRefunded
	observability.PaymentsTotal.WithLabelValues("refunded").Inc()

	return payment, nil
}

// VerifyReceipt marks a receipt as verified by an office user. Verifying an
// already verified receipt is a no-op.
func (s *PaymentService) VerifyReceipt(ctx context.Context, actor domain.Actor, receiptID string) (*domain.Receipt, error) {
	if !actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if receipt.Verified {
		return receipt, nil
	}

	now := time.Now()
	if err := s.receiptRepo.MarkVerified(ctx, receipt.ID, actor.UserID, now); err != nil {
		return nil, err
	}

	receipt.Verified = true
	receipt.VerifiedBy = actor.UserID
	receipt.VerifiedAt = now

	return receipt, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	return s.paymentRepo.GetByID(ctx, paymentID)
}

// GetReceiptForPayment retrieves the receipt created for a payment.
func (s *PaymentService) GetReceiptForPayment(ctx context.Context, paymentID string) (*domain.Receipt, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	return s.receiptRepo.GetByPaymentID(ctx, paymentID)
}

// ListPayments retrieves payments visible to the actor: passengers and
// drivers see their own, office staff see everything.
func (s *PaymentService) ListPayments(ctx context.Context, actor domain.Actor) ([]*domain.Payment, error) {
	switch actor.Role {
	case domain.RolePassenger:
		return s.paymentRepo.ListByPassenger(ctx, actor.UserID)
	case domain.RoleDriver:
		return s.paymentRepo.ListByDriver(ctx, actor.UserID)
	case domain.RoleOffice:
		return s.paymentRepo.List(ctx)
	default:
		return nil, ErrNotAllowed
	}
}
