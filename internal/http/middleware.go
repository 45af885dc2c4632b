package http

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/auth"
	"github.com/mauv0809/court-reservations/internal/http/handlers"
	"github.com/mauv0809/court-reservations/internal/pubsub"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.Path)
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Events published while serving a dry-run request are logged, not delivered.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := pubsub.WithDryRun(r.Context(), isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware requires a valid bearer token and stores its claims in the context.
func authMiddleware(issuer *auth.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				handlers.WriteJSON(w, http.StatusUnauthorized, handlers.ErrorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				log.Debug("Rejected token", "error", err)
				handlers.WriteJSON(w, http.StatusUnauthorized, handlers.ErrorResponse{Error: "invalid or expired token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
		})
	}
}

// adminMiddleware must run after authMiddleware.
func adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.FromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			handlers.WriteJSON(w, http.StatusForbidden, handlers.ErrorResponse{Error: "administrator role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
