package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncBookingsCreated()
	IncBookingConflicts()
	IncBookingDecisions(decision string)
	ObserveBookingDuration(duration float64)
	IncNotificationsSent()
	IncNotificationsFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
