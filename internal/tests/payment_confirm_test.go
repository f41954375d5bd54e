package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"transit/internal/domain"
	"transit/internal/service"
)

// memoryLocker is an in-process stand-in for the redis confirm lock.
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]bool)}
}

func (l *memoryLocker) AcquirePaymentLock(ctx context.Context, paymentID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[paymentID] {
		return false, nil
	}
	l.held[paymentID] = true
	return true, nil
}

func (l *memoryLocker) ReleasePaymentLock(ctx context.Context, paymentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, paymentID)
	return nil
}

// blockingGateway parks inside Confirm until released, so a test can hold
// one confirmation mid-flight while issuing another.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
	calls   int32
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *blockingGateway) Confirm(ctx context.Context, payment *domain.Payment) (service.GatewayOutcome, error) {
	atomic.AddInt32(&g.calls, 1)
	g.entered <- struct{}{}
	<-g.release
	return service.GatewayOutcome{Approved: true, Code: payment.ExternalRef}, nil
}

func (g *blockingGateway) callCount() int32 {
	return atomic.LoadInt32(&g.calls)
}

// ──────────────────────────────────────────────
// CONCURRENT CONFIRMATION
// ──────────────────────────────────────────────

func TestConfirmPayment_ConcurrentAttemptsYieldOneReceipt(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	receiptRepo := NewMockReceiptRepository()
	paymentRepo.AddPayment(&domain.Payment{
		ID:          "pay-1",
		PassengerID: "pass-1",
		DriverID:    "drv-1",
		Amount:      30,
		Status:      domain.PaymentStatusPending,
		ExternalRef: "REF-1",
	})

	gateway := newBlockingGateway()
	svc := service.NewPaymentService(nil, paymentRepo, receiptRepo, NewMockRouteRepository(), gateway, newMemoryLocker(), testAccount, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.ConfirmPayment(context.Background(), "pay-1")
		firstDone <- err
	}()

	// The first attempt is now inside the gateway, holding the lock.
	<-gateway.entered

	_, err := svc.ConfirmPayment(context.Background(), "pay-1")
	if !errors.Is(err, service.ErrPaymentInProgress) {
		t.Fatalf("expected ErrPaymentInProgress while the lock is held, got %v", err)
	}

	close(gateway.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}

	// An attempt that acquires the freed lock must see the final status,
	// not the pending row it might have read earlier.
	_, err = svc.ConfirmPayment(context.Background(), "pay-1")
	if !errors.Is(err, service.ErrPaymentNotPending) {
		t.Fatalf("expected ErrPaymentNotPending after completion, got %v", err)
	}

	if got := receiptRepo.CountReceipts(); got != 1 {
		t.Errorf("expected exactly 1 receipt, got %d", got)
	}
	if got := gateway.callCount(); got != 1 {
		t.Errorf("expected the gateway to be invoked once, got %d", got)
	}
}

// ──────────────────────────────────────────────
// RETRY AFTER DECLINE
// ──────────────────────────────────────────────

func TestInitiatePayment_RetryAfterDecline(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	routeRepo := NewMockRouteRepository()
	routeRepo.AddFare("Warnes", "Montero", 15)

	svc := newPaymentService(paymentRepo, NewMockReceiptRepository(), routeRepo, &service.StaticGateway{Approved: false})
	req := service.InitiatePaymentRequest{
		Actor:       domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		DriverID:    "drv-1",
		Origin:      "Warnes",
		Destination: "Montero",
		Seats:       1,
	}

	first, err := svc.InitiatePayment(context.Background(), req)
	if err != nil {
		t.Fatalf("InitiatePayment failed: %v", err)
	}

	if _, err := svc.ConfirmPayment(context.Background(), first.Payment.ID); !errors.Is(err, service.ErrPaymentDeclined) {
		t.Fatalf("expected ErrPaymentDeclined, got %v", err)
	}

	second, err := svc.InitiatePayment(context.Background(), req)
	if err != nil {
		t.Fatalf("retried InitiatePayment failed: %v", err)
	}

	if second.Payment.ID == first.Payment.ID {
		t.Fatal("expected the retry to create a fresh payment row")
	}
	if second.Payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected the retry pending, got %s", second.Payment.Status)
	}
	if paymentRepo.CountPayments() != 2 {
		t.Errorf("expected 2 payment rows, got %d", paymentRepo.CountPayments())
	}
	// The declined row stays as audit trail.
	if got := paymentRepo.GetPayment(first.Payment.ID).Status; got != domain.PaymentStatusFailed {
		t.Errorf("expected the first row kept as %s, got %s", domain.PaymentStatusFailed, got)
	}
}
