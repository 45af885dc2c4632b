package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	bookingsCreated     int
	bookingConflicts    int
	bookingDecisions    map[string]int
	bookingDurations    []float64
	notificationsSent   int
	notificationsFailed int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		bookingDecisions: make(map[string]int),
		bookingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncBookingsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingsCreated++
}

func (m *Mock) IncBookingConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingConflicts++
}

func (m *Mock) IncBookingDecisions(decision string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingDecisions[decision]++
}

func (m *Mock) ObserveBookingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingDurations = append(m.bookingDurations, duration)
}

func (m *Mock) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// BookingsCreated returns the number of times IncBookingsCreated was called.
func (m *Mock) BookingsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingsCreated
}

// BookingConflicts returns the number of times IncBookingConflicts was called.
func (m *Mock) BookingConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingConflicts
}

// BookingDecisions returns how often IncBookingDecisions was called with decision.
func (m *Mock) BookingDecisions(decision string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingDecisions[decision]
}

// BookingDurations returns every observed booking duration.
func (m *Mock) BookingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.bookingDurations...)
}

// NotificationsSent returns the number of times IncNotificationsSent was called.
func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

// NotificationsFailed returns the number of times IncNotificationsFailed was called.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
