package booking

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/court-reservations/internal/errs"
)

var (
	ErrNotFound          = fmt.Errorf("%w: booking", errs.ErrNotFound)
	ErrSlotTaken         = fmt.Errorf("%w: slot already taken", errs.ErrConflict)
	ErrInvalidRequest    = fmt.Errorf("%w: booking request", errs.ErrValidation)
	ErrPastDate          = fmt.Errorf("%w: date is in the past", errs.ErrValidation)
	ErrInvalidSlot       = fmt.Errorf("%w: slot is not offered on that day", errs.ErrValidation)
	ErrCourtUnavailable  = fmt.Errorf("%w: court is not available", errs.ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: invalid state transition", errs.ErrValidation)
	ErrNotDeletable      = fmt.Errorf("%w: booking can only be deleted once free, rejected or past", errs.ErrValidation)
	ErrNotOwner          = fmt.Errorf("%w: booking belongs to another user", errs.ErrForbidden)
)

// DateLayout is the calendar-day format used for booking dates.
const DateLayout = "2006-01-02"

// DefaultRejectionReason is recorded when an administrator rejects without a reason.
const DefaultRejectionReason = "payment not verified"

// store handles all database operations for bookings.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// State is the lifecycle state of a booking.
type State string

const (
	StateFree        State = "FREE"
	StatePreReserved State = "PRE_RESERVED"
	StateReserved    State = "RESERVED"
	StateUnavailable State = "UNAVAILABLE"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateFree, StatePreReserved, StateReserved, StateUnavailable:
		return true
	}
	return false
}

// PaymentStatus is the verification status of a booking's payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment is attached 1:1 to a requested booking. Administrator blocks carry none.
type Payment struct {
	ID              string        `json:"id"`
	BookingID       string        `json:"bookingId"`
	Amount          float64       `json:"amount"`
	Status          PaymentStatus `json:"status"`
	AccountNumber   string        `json:"accountNumber,omitempty"`
	ProofRef        string        `json:"proofRef,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Booking is one court, day and slot held by a user.
type Booking struct {
	ID         string    `json:"id"`
	CourtID    string    `json:"spaceId"`
	CourtName  string    `json:"spaceName"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserEmail  string    `json:"userEmail"`
	Date       string    `json:"date"`
	Slot       string    `json:"timeSlot"`
	Lighting   bool      `json:"lighting"`
	TotalPrice float64   `json:"totalPrice"`
	State      State     `json:"state"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Payment    *Payment  `json:"payment,omitempty"`
}

// AuditEntry records one action taken on a booking.
type AuditEntry struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId,omitempty"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ActionCreate  = "CREATE"
	ActionBlock   = "BLOCK"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionProof   = "PROOF_UPLOAD"
	ActionDelete  = "DELETE"
)

// CreateRequest is the input for requesting or blocking a slot.
type CreateRequest struct {
	CourtID  string `json:"spaceId"`
	Date     string `json:"date"`
	Slot     string `json:"timeSlot"`
	Lighting bool   `json:"lighting"`
	Reason   string `json:"reason,omitempty"`
}

// Validate normalises the request and rejects malformed fields.
func (r *CreateRequest) Validate() error {
	r.CourtID = strings.TrimSpace(r.CourtID)
	r.Date = strings.TrimSpace(r.Date)
	r.Slot = strings.TrimSpace(r.Slot)
	if _, err := uuid.Parse(r.CourtID); err != nil {
		return fmt.Errorf("%w: spaceId must be a UUID", ErrInvalidRequest)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if r.Slot == "" {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidRequest)
	}
	return nil
}

// Decision moves a booking from one state to another. An empty Payment leaves
// the payment row untouched.
type Decision struct {
	From    State
	To      State
	Payment PaymentStatus
	Reason  string
	Audit   AuditEntry
}

// Filter narrows an administrator listing. Empty fields match everything.
type Filter struct {
	State   State
	CourtID string
	UserID  string
	From    string
	To      string
}

// Page selects one page of a listing.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Normalize clamps the page to sensible bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// ListResult is one page of bookings plus the total match count.
type ListResult struct {
	Bookings []Booking `json:"reservations"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// SlotAvailability is one catalog slot of a day and whether it can be booked.
type SlotAvailability struct {
	Slot      string `json:"timeSlot"`
	Available bool   `json:"available"`
	State     State  `json:"state,omitempty"`
}

// RevenueRow is the confirmed revenue of one court.
type RevenueRow struct {
	CourtID   string  `json:"spaceId"`
	CourtName string  `json:"spaceName"`
	Bookings  int     `json:"reservations"`
	Revenue   float64 `json:"revenue"`
}

// RevenueReport groups confirmed revenue by court.
type RevenueReport struct {
	From    string       `json:"from,omitempty"`
	To      string       `json:"to,omitempty"`
	CourtID string       `json:"spaceId,omitempty"`
	Courts  []RevenueRow `json:"spaces"`
	Total   float64      `json:"total"`
}
