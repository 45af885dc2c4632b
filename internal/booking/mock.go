package booking

import (
	"context"
	"fmt"
	"sync"
)

// MockStore is a BookingStore whose behaviour is supplied through Func fields.
// Unset functions return empty results. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc           func(ctx context.Context, b *Booking, conflicts ConflictFunc, audit AuditEntry) error
	GetFunc              func(ctx context.Context, bookingID string) (*Booking, error)
	ListActiveForDayFunc func(ctx context.Context, courtID, date string) ([]Booking, error)
	DecideFunc           func(ctx context.Context, bookingID string, d Decision) (*Booking, error)

	// Call records
	CreateCalls []*Booking
	DecideCalls []Decision
}

// NewMock creates a new mock BookingStore.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(ctx context.Context, b *Booking, conflicts ConflictFunc, audit AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, b)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b, conflicts, audit)
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, bookingID string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, bookingID)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
}

func (m *MockStore) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return []Booking{}, nil
}

func (m *MockStore) List(ctx context.Context, f Filter, limit, offset int) ([]Booking, int, error) {
	return []Booking{}, 0, nil
}

func (m *MockStore) ListActiveForDay(ctx context.Context, courtID, date string) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListActiveForDayFunc != nil {
		return m.ListActiveForDayFunc(ctx, courtID, date)
	}
	return []Booking{}, nil
}

func (m *MockStore) Decide(ctx context.Context, bookingID string, d Decision) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecideCalls = append(m.DecideCalls, d)
	if m.DecideFunc != nil {
		return m.DecideFunc(ctx, bookingID, d)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
}

func (m *MockStore) AttachProof(ctx context.Context, bookingID, proofRef string, audit AuditEntry) error {
	return nil
}

func (m *MockStore) Delete(ctx context.Context, bookingID string, audit AuditEntry) error {
	return nil
}

func (m *MockStore) Revenue(ctx context.Context, from, to, courtID string) ([]RevenueRow, error) {
	return []RevenueRow{}, nil
}

func (m *MockStore) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	return []AuditEntry{}, nil
}
