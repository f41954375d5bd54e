package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"transit/internal/domain"
)

// GatewayOutcome is the result of a gateway confirmation attempt.
type GatewayOutcome struct {
	Approved bool
	Code     string // gateway-side reference or decline code
}

// PaymentGateway is the interface for the external payment processor.
// Production and test implementations differ only here, never in the
// payment state machine.
type PaymentGateway interface {
	Confirm(ctx context.Context, payment *domain.Payment) (GatewayOutcome, error)
}

// SimulatedGateway stands in for the union's bank QR gateway. It waits a
// randomized processing delay and approves with a fixed probability.
type SimulatedGateway struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway creates a gateway simulation. successRate is clamped
// to [0, 1].
func NewSimulatedGateway(successRate float64, minDelay, maxDelay time.Duration) *SimulatedGateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &SimulatedGateway{
		successRate: successRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Confirm simulates the gateway callback for a pending payment.
func (g *SimulatedGateway) Confirm(ctx context.Context, payment *domain.Payment) (GatewayOutcome, error) {
	g.mu.Lock()
	delay := g.minDelay
	if spread := g.maxDelay - g.minDelay; spread > 0 {
		delay += time.Duration(g.rng.Int63n(int64(spread)))
	}
	approved := g.rng.Float64() < g.successRate
	g.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return GatewayOutcome{}, ctx.Err()
	case <-timer.C:
	}

	if !approved {
		return GatewayOutcome{Approved: false, Code: "DECLINED"}, nil
	}

	return GatewayOutcome{Approved: true, Code: payment.ExternalRef}, nil
}

// StaticGateway always resolves with a fixed outcome. Used in tests and
// for forced-success office collections.
type StaticGateway struct {
	Approved bool
}

// Confirm returns the configured outcome immediately.
func (g *StaticGateway) Confirm(ctx context.Context, payment *domain.Payment) (GatewayOutcome, error) {
	code := payment.ExternalRef
	if !g.Approved {
		code = "DECLINED"
	}
	return GatewayOutcome{Approved: g.Approved, Code: code}, nil
}

// Ensure gateway implementations satisfy the interface.
var (
	_ PaymentGateway = (*SimulatedGateway)(nil)
	_ PaymentGateway = (*StaticGateway)(nil)
)
