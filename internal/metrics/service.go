package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_bookings_created_total",
			Help: "The total number of bookings created in PRE_RESERVED state.",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_booking_conflicts_total",
			Help: "The total number of booking attempts rejected because the slot was taken.",
		}),
		BookingDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_booking_decisions_total",
			Help: "The total number of administrator decisions on bookings.",
		}, []string{"decision"}),
		BookingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservations_booking_create_duration_seconds",
			Help:    "The duration of booking creation, from validation to commit.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_notifications_sent_total",
			Help: "The total number of booking events delivered to every notifier.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_notifications_failed_total",
			Help: "The total number of booking events at least one notifier failed to deliver.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reservations_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.BookingsCreated,
		s.BookingConflicts,
		s.BookingDecisions,
		s.BookingDuration,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncBookingsCreated() {
	s.BookingsCreated.Inc()
}

func (s *Service) IncBookingConflicts() {
	s.BookingConflicts.Inc()
}

func (s *Service) IncBookingDecisions(decision string) {
	s.BookingDecisions.WithLabelValues(decision).Inc()
}

func (s *Service) ObserveBookingDuration(duration float64) {
	s.BookingDuration.Observe(duration)
}

func (s *Service) IncNotificationsSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
