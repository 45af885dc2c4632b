package booking

import "context"

// ConflictFunc reports whether a requested slot clashes with the slots already
// held on the same court and day.
type ConflictFunc func(existing []string) bool

// BookingStore defines the persistence operations of the booking workflow.
type BookingStore interface {
	// Create inserts b, its payment and an audit entry in one transaction, unless
	// conflicts reports a clash with the non-free slots of b's court and day.
	Create(ctx context.Context, b *Booking, conflicts ConflictFunc, audit AuditEntry) error
	Get(ctx context.Context, bookingID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	// List returns bookings matching f. A limit below one returns every match.
	List(ctx context.Context, f Filter, limit, offset int) ([]Booking, int, error)
	ListActiveForDay(ctx context.Context, courtID, date string) ([]Booking, error)
	Decide(ctx context.Context, bookingID string, d Decision) (*Booking, error)
	AttachProof(ctx context.Context, bookingID, proofRef string, audit AuditEntry) error
	Delete(ctx context.Context, bookingID string, audit AuditEntry) error
	Revenue(ctx context.Context, from, to, courtID string) ([]RevenueRow, error)
	AuditLog(ctx context.Context, limit int) ([]AuditEntry, error)
}
