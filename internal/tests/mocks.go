package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"transit/internal/domain"
	"transit/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

// AddTrip seeds a trip into the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) List(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.PassengerID == passengerID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) ListByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID && !t.DepartAt.Before(from) && t.DepartAt.Before(to) {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) CountCompletedByDriver(ctx context.Context, driverID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.trips {
		if t.DriverID == driverID && t.Status == domain.TripStatusCompleted {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateCallCount       int32
	UpdateStatusCallCount int32

	CreateError       error
	UpdateStatusError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

// AddPayment seeds a payment into the mock repository.
func (m *MockPaymentRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.PassengerID == passengerID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.DriverID == driverID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) TotalCompletedByDriver(ctx context.Context, driverID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, p := range m.payments {
		if p.DriverID == driverID && p.Status == domain.PaymentStatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

// ──────────────────────────────────────────────
// MOCK RECEIPT REPOSITORY
// ──────────────────────────────────────────────

// MockReceiptRepository is a mock implementation of ReceiptRepository.
// Numbers come from an in-process counter instead of the database sequence.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt
	counter  int64
}

// NewMockReceiptRepository creates a new mock receipt repository.
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{receipts: make(map[string]*domain.Receipt)}
}

// CountReceipts returns the number of stored receipts.
func (m *MockReceiptRepository) CountReceipts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.receipts)
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[receipt.ID] = receipt
	return nil
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, id string) (*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.receipts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockReceiptRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.receipts {
		if r.PaymentID == paymentID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockReceiptRepository) MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Verified = true
	r.VerifiedBy = verifiedBy
	r.VerifiedAt = at
	return nil
}

func (m *MockReceiptRepository) NextNumber(ctx context.Context) (string, error) {
	n := atomic.AddInt64(&m.counter, 1)
	return fmt.Sprintf("COMP-%s-%05d", time.Now().Format("20060102"), n), nil
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
// The (trip, passenger) and (rating) uniqueness rules the real schema
// enforces with constraints are replicated in memory.
type MockRatingRepository struct {
	mu        sync.RWMutex
	ratings   map[string]*domain.Rating
	responses map[string]*domain.RatingResponse // keyed by rating ID
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings:   make(map[string]*domain.Rating),
		responses: make(map[string]*domain.RatingResponse),
	}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.TripID == rating.TripID && r.PassengerID == rating.PassengerID {
			return repository.ErrDuplicate
		}
	}
	m.ratings[rating.ID] = rating
	return nil
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.ratings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockRatingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rating
	for _, r := range m.ratings {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRatingRepository) ListLowRated(ctx context.Context, threshold, limit int) ([]*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rating
	for _, r := range m.ratings {
		if r.Overall <= threshold && len(result) < limit {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRatingRepository) CreateResponse(ctx context.Context, resp *domain.RatingResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.responses[resp.RatingID]; ok {
		return repository.ErrDuplicate
	}
	m.responses[resp.RatingID] = resp
	return nil
}

func (m *MockRatingRepository) GetResponse(ctx context.Context, ratingID string) (*domain.RatingResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp, ok := m.responses[ratingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *resp
	return &copy, nil
}

func (m *MockRatingRepository) Aggregate(ctx context.Context, driverID string) (*domain.DriverStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &domain.DriverStats{DriverID: driverID}
	var sum, recommends int
	for _, r := range m.ratings {
		if r.DriverID != driverID {
			continue
		}
		stats.RatingCount++
		sum += r.Overall
		if r.Recommend {
			recommends++
		}
		if r.Overall >= 1 && r.Overall <= 5 {
			stats.Distribution[r.Overall-1]++
		}
	}
	if stats.RatingCount > 0 {
		stats.AvgOverall = float64(sum) / float64(stats.RatingCount)
		stats.RecommendPct = float64(recommends) / float64(stats.RatingCount) * 100
	}
	return stats, nil
}

func (m *MockRatingRepository) Ranking(ctx context.Context, limit int) ([]*domain.RankingEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDriver := make(map[string]*domain.RankingEntry)
	sums := make(map[string]int)
	for _, r := range m.ratings {
		e, ok := byDriver[r.DriverID]
		if !ok {
			e = &domain.RankingEntry{DriverID: r.DriverID}
			byDriver[r.DriverID] = e
		}
		e.RatingCount++
		sums[r.DriverID] += r.Overall
	}
	result := make([]*domain.RankingEntry, 0, len(byDriver))
	for id, e := range byDriver {
		e.AvgRating = float64(sums[id]) / float64(e.RatingCount)
		if len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	UpdateStatusCallCount int32

	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{drivers: make(map[string]*domain.Driver)}
}

// AddDriver seeds a driver into the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

func (m *MockDriverRepository) List(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) ListAvailable(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, d := range m.drivers {
		if d.Status == domain.DriverStatusAvailable {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Status = status
	return nil
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Lat = lat
	d.Lng = lng
	d.LocatedAt = at
	return nil
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository with a
// static fare table.
type MockRouteRepository struct {
	mu     sync.RWMutex
	fares  map[string]float64 // "origin|destination" -> per-seat fare
	routes []*domain.Route
	stops  []*domain.Stop
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{fares: make(map[string]float64)}
}

// AddFare configures a per-seat fare for an origin/destination pair.
func (m *MockRouteRepository) AddFare(origin, destination string, fare float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fares[origin+"|"+destination] = fare
	m.routes = append(m.routes, &domain.Route{
		Origin:      origin,
		Destination: destination,
		BaseFare:    fare,
		Active:      true,
	})
}

func (m *MockRouteRepository) ListActive(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Route(nil), m.routes...), nil
}

func (m *MockRouteRepository) GetFare(ctx context.Context, origin, destination string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fare, ok := m.fares[origin+"|"+destination]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return fare, nil
}

func (m *MockRouteRepository) ListStops(ctx context.Context) ([]*domain.Stop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Stop(nil), m.stops...), nil
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.SpecialRequest
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{requests: make(map[string]*domain.SpecialRequest)}
}

// AddRequest seeds a special request into the mock repository.
func (m *MockRequestRepository) AddRequest(r *domain.SpecialRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r
}

// GetRequest returns the stored request for test assertions.
func (m *MockRequestRepository) GetRequest(id string) *domain.SpecialRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.SpecialRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.SpecialRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockRequestRepository) Update(ctx context.Context, req *domain.SpecialRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *req
	m.requests[req.ID] = &copy
	return nil
}

func (m *MockRequestRepository) List(ctx context.Context) ([]*domain.SpecialRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SpecialRequest, 0, len(m.requests))
	for _, r := range m.requests {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRequestRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.SpecialRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.SpecialRequest
	for _, r := range m.requests {
		if r.PassengerID == passengerID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK WITHDRAWAL REPOSITORY
// ──────────────────────────────────────────────

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	mu          sync.RWMutex
	withdrawals map[string]*domain.Withdrawal
}

// NewMockWithdrawalRepository creates a new mock withdrawal repository.
func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{withdrawals: make(map[string]*domain.Withdrawal)}
}

// AddWithdrawal seeds a withdrawal into the mock repository.
func (m *MockWithdrawalRepository) AddWithdrawal(w *domain.Withdrawal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[w.ID] = w
}

// GetWithdrawal returns the stored withdrawal for test assertions.
func (m *MockWithdrawalRepository) GetWithdrawal(id string) *domain.Withdrawal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.withdrawals[id]
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[w.ID] = w
	return nil
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (m *MockWithdrawalRepository) Update(ctx context.Context, w *domain.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.withdrawals[w.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *w
	m.withdrawals[w.ID] = &copy
	return nil
}

func (m *MockWithdrawalRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.DriverID == driverID {
			copy := *w
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockWithdrawalRepository) ListPending(ctx context.Context) ([]*domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.Status == domain.WithdrawalStatusPending {
			copy := *w
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockWithdrawalRepository) TotalActiveByDriver(ctx context.Context, driverID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, w := range m.withdrawals {
		if w.DriverID == driverID && w.Status != domain.WithdrawalStatusRejected {
			total += w.Amount
		}
	}
	return total, nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory stand-in for the Redis geo index.
type MockLocationStore struct {
	mu        sync.RWMutex
	positions map[string][2]float64

	UpdateError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{positions: make(map[string][2]float64)}
}

func (m *MockLocationStore) UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[driverID] = [2]float64{lat, lng}
	return nil
}

func (m *MockLocationStore) NearbyDrivers(ctx context.Context, lat, lng, radiusKM float64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Radius math is the geo index's job; the mock returns everyone.
	ids := make([]string, 0, len(m.positions))
	for id := range m.positions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Position returns the stored position for test assertions.
func (m *MockLocationStore) Position(driverID string) ([2]float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[driverID]
	return pos, ok
}
