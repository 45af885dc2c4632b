package http

import (
	"net/http"

	"github.com/mauv0809/court-reservations/internal/auth"
	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/config"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/http/handlers"
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/processor"
	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/mauv0809/court-reservations/internal/user"
)

type Server struct {
	DB             handlers.Pinger
	Courts         court.CourtStore
	Users          user.UserStore
	Bookings       *booking.Service
	Calculator     *pricing.Calculator
	Resolver       *slots.Resolver
	Auth           *auth.Issuer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Processor      *processor.Processor
	Router         *http.ServeMux
}

// Deps groups the collaborators a Server is built from.
type Deps struct {
	DB             handlers.Pinger
	Courts         court.CourtStore
	Users          user.UserStore
	Bookings       *booking.Service
	Calculator     *pricing.Calculator
	Resolver       *slots.Resolver
	Auth           *auth.Issuer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Processor      *processor.Processor
}
