package notifier

import (
	"sync"

	"github.com/mauv0809/court-reservations/internal/pubsub"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls. Each receives the event type it was called for.
	SendFunc func(eventType pubsub.EventType, event *pubsub.BookingEvent, dryRun bool) error

	// Call records
	SendBookingCreatedCalls  []*pubsub.BookingEvent
	SendBookingApprovedCalls []*pubsub.BookingEvent
	SendBookingRejectedCalls []*pubsub.BookingEvent
	SendProofUploadedCalls   []*pubsub.BookingEvent
	DryRunCalls              int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendBookingCreatedCalls = nil
	m.SendBookingApprovedCalls = nil
	m.SendBookingRejectedCalls = nil
	m.SendProofUploadedCalls = nil
	m.DryRunCalls = 0
}

func (m *Mock) record(calls *[]*pubsub.BookingEvent, eventType pubsub.EventType, event *pubsub.BookingEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	*calls = append(*calls, event)
	if dryRun {
		m.DryRunCalls++
	}
	if m.SendFunc != nil {
		return m.SendFunc(eventType, event, dryRun)
	}
	return nil
}

func (m *Mock) SendBookingCreated(event *pubsub.BookingEvent, dryRun bool) error {
	return m.record(&m.SendBookingCreatedCalls, pubsub.EventBookingCreated, event, dryRun)
}

func (m *Mock) SendBookingApproved(event *pubsub.BookingEvent, dryRun bool) error {
	return m.record(&m.SendBookingApprovedCalls, pubsub.EventBookingApproved, event, dryRun)
}

func (m *Mock) SendBookingRejected(event *pubsub.BookingEvent, dryRun bool) error {
	return m.record(&m.SendBookingRejectedCalls, pubsub.EventBookingRejected, event, dryRun)
}

func (m *Mock) SendProofUploaded(event *pubsub.BookingEvent, dryRun bool) error {
	return m.record(&m.SendProofUploadedCalls, pubsub.EventProofUploaded, event, dryRun)
}

// Calls returns the total number of notifications recorded.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendBookingCreatedCalls) + len(m.SendBookingApprovedCalls) +
		len(m.SendBookingRejectedCalls) + len(m.SendProofUploadedCalls)
}
