package tests

import (
	"context"
	"errors"
	"testing"

	"transit/internal/domain"
	"transit/internal/service"
)

func newWithdrawalService(withdrawalRepo *MockWithdrawalRepository, paymentRepo *MockPaymentRepository) *service.WithdrawalService {
	return service.NewWithdrawalService(withdrawalRepo, paymentRepo, nil)
}

func seedEarnings(paymentRepo *MockPaymentRepository, driverID string, amounts ...float64) {
	for i, amount := range amounts {
		paymentRepo.AddPayment(&domain.Payment{
			ID:       driverID + "-pay-" + string(rune('a'+i)),
			DriverID: driverID,
			Amount:   amount,
			Status:   domain.PaymentStatusCompleted,
		})
	}
}

// ──────────────────────────────────────────────
// BALANCE
// ──────────────────────────────────────────────

func TestBalance_EarningsMinusActiveWithdrawals(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	paymentRepo := NewMockPaymentRepository()
	seedEarnings(paymentRepo, "drv-1", 100, 50)
	// Pending payments do not count as earnings.
	paymentRepo.AddPayment(&domain.Payment{ID: "pay-x", DriverID: "drv-1", Amount: 500, Status: domain.PaymentStatusPending})
	// Pending and completed withdrawals are held; rejected ones are not.
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-1", DriverID: "drv-1", Amount: 40, Status: domain.WithdrawalStatusPending})
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-2", DriverID: "drv-1", Amount: 30, Status: domain.WithdrawalStatusRejected})

	svc := newWithdrawalService(withdrawalRepo, paymentRepo)

	balance, err := svc.Balance(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 110 {
		t.Errorf("expected balance 110 (150 earned minus 40 held), got %.2f", balance)
	}
}

// ──────────────────────────────────────────────
// CREATE
// ──────────────────────────────────────────────

func TestCreateWithdrawal_WithinBalance(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	paymentRepo := NewMockPaymentRepository()
	seedEarnings(paymentRepo, "drv-1", 100)

	svc := newWithdrawalService(withdrawalRepo, paymentRepo)

	w, err := svc.CreateWithdrawal(context.Background(), service.CreateWithdrawalRequest{
		Actor:         domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		Amount:        80,
		Method:        "banco",
		MethodDetails: `{"cuenta":"555"}`,
	})
	if err != nil {
		t.Fatalf("CreateWithdrawal failed: %v", err)
	}

	if w.Status != domain.WithdrawalStatusPending {
		t.Errorf("expected status %s, got %s", domain.WithdrawalStatusPending, w.Status)
	}
	if w.DriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", w.DriverID)
	}

	// The pending request now holds the funds.
	_, err = svc.CreateWithdrawal(context.Background(), service.CreateWithdrawalRequest{
		Actor:  domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		Amount: 30,
	})
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCreateWithdrawal_ExceedsBalance(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	seedEarnings(paymentRepo, "drv-1", 50)

	svc := newWithdrawalService(NewMockWithdrawalRepository(), paymentRepo)

	_, err := svc.CreateWithdrawal(context.Background(), service.CreateWithdrawalRequest{
		Actor:  domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		Amount: 51,
	})
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCreateWithdrawal_DriverOnly(t *testing.T) {
	t.Parallel()

	svc := newWithdrawalService(NewMockWithdrawalRepository(), NewMockPaymentRepository())

	_, err := svc.CreateWithdrawal(context.Background(), service.CreateWithdrawalRequest{
		Actor:  domain.Actor{UserID: "pass-1", Role: domain.RolePassenger},
		Amount: 10,
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed, got %v", err)
	}
}

func TestCreateWithdrawal_NonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc := newWithdrawalService(NewMockWithdrawalRepository(), NewMockPaymentRepository())

	_, err := svc.CreateWithdrawal(context.Background(), service.CreateWithdrawalRequest{
		Actor: domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
	})
	if !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

// ──────────────────────────────────────────────
// PROCESS
// ──────────────────────────────────────────────

func TestProcessWithdrawal_OfficeDecision(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-1", DriverID: "drv-1", Amount: 80, Status: domain.WithdrawalStatusPending})

	svc := newWithdrawalService(withdrawalRepo, NewMockPaymentRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	w, err := svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        office,
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusProcessing,
	})
	if err != nil {
		t.Fatalf("ProcessWithdrawal failed: %v", err)
	}
	if w.Status != domain.WithdrawalStatusProcessing {
		t.Fatalf("expected status %s, got %s", domain.WithdrawalStatusProcessing, w.Status)
	}
	if w.ProcessedBy != "office-1" {
		t.Errorf("expected processed by office-1, got %s", w.ProcessedBy)
	}
	if w.ProcessedAt.IsZero() {
		t.Error("expected processing time to be recorded")
	}

	w, err = svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        office,
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusCompleted,
		Notes:        "transferido",
	})
	if err != nil {
		t.Fatalf("ProcessWithdrawal failed: %v", err)
	}
	if w.Status != domain.WithdrawalStatusCompleted {
		t.Fatalf("expected status %s, got %s", domain.WithdrawalStatusCompleted, w.Status)
	}
	if w.Notes != "transferido" {
		t.Errorf("expected notes recorded, got %q", w.Notes)
	}

	// Terminal requests cannot be reprocessed.
	_, err = svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        office,
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusRejected,
	})
	if !errors.Is(err, service.ErrWithdrawalProcessed) {
		t.Errorf("expected ErrWithdrawalProcessed, got %v", err)
	}
}

func TestProcessWithdrawal_RejectDirectly(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-1", DriverID: "drv-1", Amount: 80, Status: domain.WithdrawalStatusPending})

	svc := newWithdrawalService(withdrawalRepo, NewMockPaymentRepository())

	w, err := svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusRejected,
		Notes:        "datos bancarios incompletos",
	})
	if err != nil {
		t.Fatalf("ProcessWithdrawal failed: %v", err)
	}
	if w.Status != domain.WithdrawalStatusRejected {
		t.Errorf("expected status %s, got %s", domain.WithdrawalStatusRejected, w.Status)
	}
}

func TestProcessWithdrawal_InvalidTargets(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-1", Status: domain.WithdrawalStatusProcessing})

	svc := newWithdrawalService(withdrawalRepo, NewMockPaymentRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	// Pending is not a valid target status.
	_, err := svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        office,
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusPending,
	})
	if !errors.Is(err, service.ErrInvalidRequestTransition) {
		t.Errorf("expected ErrInvalidRequestTransition, got %v", err)
	}

	// Processing can only be entered from pending.
	_, err = svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        office,
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusProcessing,
	})
	if !errors.Is(err, service.ErrInvalidRequestTransition) {
		t.Errorf("expected ErrInvalidRequestTransition, got %v", err)
	}
}

func TestProcessWithdrawal_OfficeOnly(t *testing.T) {
	t.Parallel()

	svc := newWithdrawalService(NewMockWithdrawalRepository(), NewMockPaymentRepository())

	_, err := svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:        domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		WithdrawalID: "wd-1",
		Status:       domain.WithdrawalStatusCompleted,
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed, got %v", err)
	}
}

// ──────────────────────────────────────────────
// LISTING
// ──────────────────────────────────────────────

func TestListWithdrawals_ScopedByRole(t *testing.T) {
	t.Parallel()

	withdrawalRepo := NewMockWithdrawalRepository()
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-1", DriverID: "drv-1", Status: domain.WithdrawalStatusPending})
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-2", DriverID: "drv-2", Status: domain.WithdrawalStatusPending})
	withdrawalRepo.AddWithdrawal(&domain.Withdrawal{ID: "wd-3", DriverID: "drv-1", Status: domain.WithdrawalStatusCompleted})

	svc := newWithdrawalService(withdrawalRepo, NewMockPaymentRepository())

	own, err := svc.ListWithdrawals(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("ListWithdrawals failed: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("expected 2 driver withdrawals, got %d", len(own))
	}

	pending, err := svc.ListWithdrawals(context.Background(), domain.Actor{UserID: "office-1", Role: domain.RoleOffice})
	if err != nil {
		t.Fatalf("ListWithdrawals failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending withdrawals for office, got %d", len(pending))
	}
}

func TestWithdrawal_EmptyIDRejected(t *testing.T) {
	t.Parallel()

	svc := newWithdrawalService(NewMockWithdrawalRepository(), NewMockPaymentRepository())
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	if _, err := svc.GetWithdrawal(context.Background(), ""); !errors.Is(err, service.ErrInvalidWithdrawalID) {
		t.Errorf("expected ErrInvalidWithdrawalID, got %v", err)
	}

	_, err := svc.ProcessWithdrawal(context.Background(), service.ProcessWithdrawalRequest{
		Actor:  office,
		Status: domain.WithdrawalStatusProcessing,
	})
	if !errors.Is(err, service.ErrInvalidWithdrawalID) {
		t.Errorf("expected ErrInvalidWithdrawalID, got %v", err)
	}
}
