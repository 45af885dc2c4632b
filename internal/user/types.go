package user

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
)

var (
	ErrNotFound           = fmt.Errorf("%w: user", errs.ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", errs.ErrConflict)
	ErrInvalidInput       = fmt.Errorf("%w: user", errs.ErrValidation)
	ErrNoPendingRequest   = fmt.Errorf("%w: no pending special-tier request", errs.ErrValidation)
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var dniPattern = regexp.MustCompile(`^\d{8}[A-Z]$`)

const minPasswordLength = 6

// store handles all database operations for users.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	bcryptCost int
}

// Role is the access level and price class of a user.
type Role string

const (
	RoleUser        Role = "USER"
	RoleSpecialUser Role = "SPECIAL_USER"
	RoleAdmin       Role = "ADMIN"
)

// User is a registered account.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	DNI            string    `json:"dni"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	SpecialPending bool      `json:"specialPending"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Tier returns the price class the user books at.
func (u User) Tier() pricing.Tier {
	if u.Role == RoleSpecialUser {
		return pricing.TierSpecial
	}
	return pricing.TierOrdinary
}

// IsAdmin reports whether the user may perform administrative actions.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Registration is the input for creating an account. SpecialTier asks an
// administrator for the discounted price class.
type Registration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DNI         string `json:"dni"`
	Password    string `json:"password"`
	SpecialTier bool   `json:"specialTier"`
}

// Validate normalises the email and checks every field.
func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if len(r.Name) < 2 {
		return fmt.Errorf("%w: name must have at least 2 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if !dniPattern.MatchString(r.DNI) {
		return fmt.Errorf("%w: invalid DNI (format: 12345678A)", ErrInvalidInput)
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}
