package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/auth"
	"github.com/mauv0809/court-reservations/internal/user"
)

type tokenResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func RegisterHandler(users user.UserStore, issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg user.Registration
		if err := decodeJSON(w, r, &reg); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		u, err := users.Register(r.Context(), reg)
		if err != nil {
			WriteError(w, err, "Failed to register user")
			return
		}
		token, err := issuer.Issue(u)
		if err != nil {
			WriteError(w, err, "Failed to issue token")
			return
		}
		WriteJSON(w, http.StatusCreated, tokenResponse{Token: token, User: u})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func LoginHandler(users user.UserStore, issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			WriteError(w, err, "Failed to log in")
			return
		}
		token, err := issuer.Issue(u)
		if err != nil {
			WriteError(w, err, "Failed to issue token")
			return
		}
		log.Info("User logged in", "userID", u.ID)
		WriteJSON(w, http.StatusOK, tokenResponse{Token: token, User: u})
	}
}

func ProfileHandler(users user.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), claims(r).Sub)
		if err != nil {
			WriteError(w, err, "Failed to load profile")
			return
		}
		WriteJSON(w, http.StatusOK, u)
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func ChangePasswordHandler(users user.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		if err := users.ChangePassword(r.Context(), claims(r).Sub, req.CurrentPassword, req.NewPassword); err != nil {
			WriteError(w, err, "Failed to change password")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func PendingSpecialHandler(users user.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := users.ListPendingSpecial(r.Context())
		if err != nil {
			WriteError(w, err, "Failed to list pending requests")
			return
		}
		WriteJSON(w, http.StatusOK, pending)
	}
}

type specialRoleRequest struct {
	Approve bool `json:"approve"`
}

func SpecialRoleHandler(users user.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req specialRoleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err, "Invalid request")
			return
		}
		u, err := users.ResolveSpecialRequest(r.Context(), r.PathValue("id"), req.Approve)
		if err != nil {
			WriteError(w, err, "Failed to resolve special-tier request")
			return
		}
		WriteJSON(w, http.StatusOK, u)
	}
}
