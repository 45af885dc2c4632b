package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/auth"
	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pubsub"
	"github.com/mauv0809/court-reservations/internal/user"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	return pubsub.IsDryRun(r.Context())
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// WriteError maps err to a status code by its kind. Unclassified errors are
// logged and reported as msg with a 500.
func WriteError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
		WriteJSON(w, status, ErrorResponse{Error: msg})
		return
	}
	log.Debug("Request rejected", "status", status, "error", err)
	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

var errBadJSON = fmt.Errorf("%w: invalid JSON body", errs.ErrValidation)

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// claims returns the authenticated caller. Routes behind the auth middleware always have one.
func claims(r *http.Request) *auth.Claims {
	c, ok := auth.FromContext(r.Context())
	if !ok {
		return &auth.Claims{}
	}
	return c
}

func intParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
