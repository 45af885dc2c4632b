package http

import (
	"net/http"

	"github.com/mauv0809/court-reservations/internal/config"
	"github.com/mauv0809/court-reservations/internal/http/handlers"
)

func NewServer(deps Deps, cfg config.Config) *Server {
	server := &Server{
		DB:             deps.DB,
		Courts:         deps.Courts,
		Users:          deps.Users,
		Bookings:       deps.Bookings,
		Calculator:     deps.Calculator,
		Resolver:       deps.Resolver,
		Auth:           deps.Auth,
		Metrics:        deps.Metrics,
		MetricsHandler: deps.MetricsHandler,
		Cfg:            cfg,
		Processor:      deps.Processor,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	public := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware)
	}
	authed := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, authMiddleware(s.Auth))
	}
	admin := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, authMiddleware(s.Auth), adminMiddleware)
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", public(handlers.HealthCheckHandler(s.DB)))
	s.Router.Handle("GET /api/config", public(handlers.PublicConfigHandler(s.Cfg.Public())))

	s.Router.Handle("POST /api/auth/register", public(handlers.RegisterHandler(s.Users, s.Auth)))
	s.Router.Handle("POST /api/auth/login", public(handlers.LoginHandler(s.Users, s.Auth)))
	s.Router.Handle("GET /api/users/profile", authed(handlers.ProfileHandler(s.Users)))
	s.Router.Handle("POST /api/users/change-password", authed(handlers.ChangePasswordHandler(s.Users)))

	s.Router.Handle("GET /api/spaces", public(handlers.ListSpacesHandler(s.Courts)))
	s.Router.Handle("GET /api/spaces/{id}", public(handlers.GetSpaceHandler(s.Courts)))
	s.Router.Handle("PATCH /api/spaces/{id}", admin(handlers.UpdateSpaceHandler(s.Courts)))
	s.Router.Handle("GET /api/spaces/{id}/availability", public(handlers.AvailabilityHandler(s.Bookings)))
	s.Router.Handle("GET /api/slots", public(handlers.SlotsHandler(s.Resolver)))
	s.Router.Handle("GET /api/pricing/quote", public(handlers.QuoteHandler(s.Calculator)))

	s.Router.Handle("POST /api/reservations", authed(handlers.CreateReservationHandler(s.Bookings)))
	s.Router.Handle("GET /api/reservations/mine", authed(handlers.MyReservationsHandler(s.Bookings)))
	s.Router.Handle("GET /api/reservations/{id}", authed(handlers.GetReservationHandler(s.Bookings)))
	s.Router.Handle("DELETE /api/reservations/{id}", authed(handlers.DeleteReservationHandler(s.Bookings)))
	s.Router.Handle("POST /api/reservations/{id}/proof", authed(handlers.UploadProofHandler(s.Bookings, s.Cfg.UploadDir)))
	s.Router.Handle("PATCH /api/reservations/{id}/status", admin(handlers.UpdateStatusHandler(s.Bookings)))

	s.Router.Handle("POST /api/admin/blocks", admin(handlers.BlockSlotHandler(s.Bookings)))
	s.Router.Handle("GET /api/admin/reservations", admin(handlers.AdminReservationsHandler(s.Bookings)))
	s.Router.Handle("GET /api/admin/reports/revenue", admin(handlers.RevenueHandler(s.Bookings)))
	s.Router.Handle("GET /api/admin/export/reservations", admin(handlers.ExportReservationsHandler(s.Bookings)))
	s.Router.Handle("GET /api/admin/logs", admin(handlers.AuditLogHandler(s.Bookings)))
	s.Router.Handle("GET /api/admin/proofs/{name}", admin(handlers.ProofFileHandler(s.Cfg.UploadDir)))
	s.Router.Handle("GET /api/admin/users/pending-special", admin(handlers.PendingSpecialHandler(s.Users)))
	s.Router.Handle("PATCH /api/admin/users/{id}/special-role", admin(handlers.SpecialRoleHandler(s.Users)))

	s.Router.Handle("POST /api/events/push", public(handlers.EventsPushHandler(s.Processor)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
