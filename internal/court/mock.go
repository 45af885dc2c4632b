package court

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/court-reservations/internal/pricing"
)

// MockStore is an in-memory implementation of the CourtStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu     sync.Mutex
	courts map[string]Court

	// Spies for method calls
	ListFunc   func(ctx context.Context) ([]Court, error)
	GetFunc    func(ctx context.Context, courtID string) (*Court, error)
	UpdateFunc func(ctx context.Context, courtID string, patch Patch) (*Court, error)

	// Call records
	GetCalls    []string
	UpdateCalls []struct {
		CourtID string
		Patch   Patch
	}
}

// NewMock creates a mock pre-loaded with the given courts.
func NewMock(courts ...Court) *MockStore {
	m := &MockStore{courts: make(map[string]Court)}
	for _, c := range courts {
		m.courts[c.ID] = c
	}
	return m
}

func (m *MockStore) List(ctx context.Context) ([]Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	out := make([]Court, 0, len(m.courts))
	for _, c := range m.courts {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockStore) Get(ctx context.Context, courtID string) (*Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, courtID)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, courtID)
	}
	c, ok := m.courts[courtID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, courtID)
	}
	return &c, nil
}

func (m *MockStore) Update(ctx context.Context, courtID string, patch Patch) (*Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, struct {
		CourtID string
		Patch   Patch
	}{courtID, patch})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, courtID, patch)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	c, ok := m.courts[courtID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, courtID)
	}
	patch.apply(&c)
	m.courts[courtID] = c
	return &c, nil
}

func (m *MockStore) Seed(ctx context.Context, courts []Court) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range courts {
		m.courts[c.ID] = c
	}
	return nil
}

func (m *MockStore) PricingCourt(ctx context.Context, courtID string) (pricing.Court, error) {
	c, err := m.Get(ctx, courtID)
	if err != nil {
		return pricing.Court{}, err
	}
	return c.Pricing(), nil
}
