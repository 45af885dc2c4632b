package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncBookingsCreated()
	s.IncBookingsCreated()
	s.IncBookingConflicts()
	s.IncBookingDecisions("approved")
	s.IncBookingDecisions("rejected")
	s.IncBookingDecisions("approved")
	s.SetStartupTime(1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.BookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.BookingConflicts))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.BookingDecisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.BookingDecisions.WithLabelValues("rejected")))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncBookingsCreated()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "reservations_bookings_created_total 1")
}
