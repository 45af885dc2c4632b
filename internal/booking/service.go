package booking

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/pubsub"
	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/mauv0809/court-reservations/internal/user"
)

// Service runs the booking workflow on top of the stores, the slot resolver
// and the pricing rules.
type Service struct {
	store         BookingStore
	courts        court.CourtStore
	users         user.UserStore
	resolver      *slots.Resolver
	pubsub        pubsub.PubSubClient
	metrics       metrics.Metrics
	accountNumber string
	loc           *time.Location
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone that decides which calendar day is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAccountNumber sets the bank account shown on new payments.
func WithAccountNumber(account string) Option {
	return func(s *Service) { s.accountNumber = account }
}

// NewService creates a booking Service.
func NewService(store BookingStore, courts court.CourtStore, users user.UserStore, resolver *slots.Resolver, pubsub pubsub.PubSubClient, metrics metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		store:    store,
		courts:   courts,
		users:    users,
		resolver: resolver,
		pubsub:   pubsub,
		metrics:  metrics,
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

func (s *Service) parseDay(date string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return day, nil
}

// checkSlot rejects past days and slots outside the day's catalog.
func (s *Service) checkSlot(date, slot string) error {
	day, err := s.parseDay(date)
	if err != nil {
		return err
	}
	if date < s.Today() {
		return fmt.Errorf("%w: %s", ErrPastDate, date)
	}
	if !s.resolver.IsValid(day, slot) {
		return fmt.Errorf("%w: %s on %s", ErrInvalidSlot, slot, slots.DayTypeOf(day))
	}
	return nil
}

func (s *Service) conflictsWith(slot string) ConflictFunc {
	return func(existing []string) bool {
		return s.resolver.Conflicts(slot, existing)
	}
}

// Create requests a slot for userID. The booking starts PRE_RESERVED with a
// PENDING payment for the computed price.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Booking, pricing.Breakdown, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, pricing.Breakdown{}, err
	}
	if err := s.checkSlot(req.Date, req.Slot); err != nil {
		return nil, pricing.Breakdown{}, err
	}
	c, err := s.courts.Get(ctx, req.CourtID)
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}
	if !c.Available {
		return nil, pricing.Breakdown{}, fmt.Errorf("%w: %s", ErrCourtUnavailable, c.Name)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, pricing.Breakdown{}, err
	}
	price := pricing.Compute(c.Pricing(), u.Tier(), req.Lighting)

	b := &Booking{
		CourtID:    c.ID,
		CourtName:  c.Name,
		UserID:     u.ID,
		UserName:   u.Name,
		UserEmail:  u.Email,
		Date:       req.Date,
		Slot:       req.Slot,
		Lighting:   req.Lighting,
		TotalPrice: price.Total,
		State:      StatePreReserved,
		Payment: &Payment{
			Amount:        price.Total,
			Status:        PaymentPending,
			AccountNumber: s.accountNumber,
		},
	}
	audit := AuditEntry{
		Action:  ActionCreate,
		UserID:  u.ID,
		Details: fmt.Sprintf("%s %s %s total %.2f", c.Name, req.Date, req.Slot, price.Total),
	}
	if err := s.store.Create(ctx, b, s.conflictsWith(req.Slot), audit); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.IncBookingConflicts()
		}
		return nil, pricing.Breakdown{}, err
	}
	s.metrics.IncBookingsCreated()
	s.metrics.ObserveBookingDuration(time.Since(start).Seconds())
	s.publish(ctx, pubsub.EventBookingCreated, b, "")
	return b, price, nil
}

// Block marks a slot UNAVAILABLE on behalf of an administrator.
func (s *Service) Block(ctx context.Context, adminID string, req CreateRequest) (*Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSlot(req.Date, req.Slot); err != nil {
		return nil, err
	}
	c, err := s.courts.Get(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}
	b := &Booking{
		CourtID:   c.ID,
		CourtName: c.Name,
		UserID:    adminID,
		Date:      req.Date,
		Slot:      req.Slot,
		State:     StateUnavailable,
	}
	audit := AuditEntry{
		Action:  ActionBlock,
		UserID:  adminID,
		Details: fmt.Sprintf("%s %s %s %s", c.Name, req.Date, req.Slot, req.Reason),
	}
	if err := s.store.Create(ctx, b, s.conflictsWith(req.Slot), audit); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.IncBookingConflicts()
		}
		return nil, err
	}
	return b, nil
}

// Approve confirms a pre-reservation after its payment has been verified.
func (s *Service) Approve(ctx context.Context, adminID, bookingID string) (*Booking, error) {
	b, err := s.store.Decide(ctx, bookingID, Decision{
		From:    StatePreReserved,
		To:      StateReserved,
		Payment: PaymentApproved,
		Audit:   AuditEntry{Action: ActionApprove, UserID: adminID},
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncBookingDecisions("approved")
	s.publish(ctx, pubsub.EventBookingApproved, b, "")
	return b, nil
}

// Reject frees a pre-reserved slot and marks its payment rejected.
func (s *Service) Reject(ctx context.Context, adminID, bookingID, reason string) (*Booking, error) {
	if reason == "" {
		reason = DefaultRejectionReason
	}
	b, err := s.store.Decide(ctx, bookingID, Decision{
		From:    StatePreReserved,
		To:      StateFree,
		Payment: PaymentRejected,
		Reason:  reason,
		Audit:   AuditEntry{Action: ActionReject, UserID: adminID, Details: reason},
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncBookingDecisions("rejected")
	s.publish(ctx, pubsub.EventBookingRejected, b, reason)
	return b, nil
}

// Decide applies an administrator's status change: RESERVED approves, FREE rejects.
func (s *Service) Decide(ctx context.Context, adminID, bookingID string, to State, reason string) (*Booking, error) {
	switch to {
	case StateReserved:
		return s.Approve(ctx, adminID, bookingID)
	case StateFree:
		return s.Reject(ctx, adminID, bookingID, reason)
	default:
		return nil, fmt.Errorf("%w: status must be RESERVED or FREE", ErrInvalidTransition)
	}
}

// Get returns a booking visible to the caller.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, bookingID string) (*Booking, error) {
	b, err := s.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != userID {
		return nil, ErrNotOwner
	}
	return b, nil
}

// Mine returns the caller's bookings.
func (s *Service) Mine(ctx context.Context, userID string) ([]Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// AttachProof records an uploaded payment proof on the owner's pre-reservation.
func (s *Service) AttachProof(ctx context.Context, userID, bookingID, proofRef string) (*Booking, error) {
	b, err := s.Get(ctx, userID, false, bookingID)
	if err != nil {
		return nil, err
	}
	if b.State != StatePreReserved {
		return nil, fmt.Errorf("%w: proof can only be attached to a pre-reservation", ErrInvalidTransition)
	}
	audit := AuditEntry{Action: ActionProof, UserID: userID, Details: proofRef}
	if err := s.store.AttachProof(ctx, bookingID, proofRef, audit); err != nil {
		return nil, err
	}
	b.Payment.ProofRef = proofRef
	s.publish(ctx, pubsub.EventProofUploaded, b, "")
	return b, nil
}

// Delete removes the owner's booking once it is free, rejected or in the past.
func (s *Service) Delete(ctx context.Context, userID, bookingID string) error {
	b, err := s.Get(ctx, userID, false, bookingID)
	if err != nil {
		return err
	}
	if !s.deletable(b) {
		return fmt.Errorf("%w: booking is %s", ErrNotDeletable, b.State)
	}
	return s.store.Delete(ctx, bookingID, AuditEntry{
		Action:  ActionDelete,
		UserID:  userID,
		Details: fmt.Sprintf("%s %s %s %s", bookingID, b.CourtName, b.Date, b.Slot),
	})
}

func (s *Service) deletable(b *Booking) bool {
	if b.State == StateFree {
		return true
	}
	if b.Payment != nil && b.Payment.Status == PaymentRejected {
		return true
	}
	return b.Date < s.Today()
}

// Availability lists the catalog slots of a day with whether each can be booked.
func (s *Service) Availability(ctx context.Context, courtID, date string) ([]SlotAvailability, error) {
	day, err := s.parseDay(date)
	if err != nil {
		return nil, err
	}
	c, err := s.courts.Get(ctx, courtID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.ListActiveForDay(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	open := c.Available && date >= s.Today()

	catalog := s.resolver.SlotsFor(day)
	out := make([]SlotAvailability, 0, len(catalog))
	for _, slot := range catalog {
		a := SlotAvailability{Slot: slot, Available: open}
		for _, b := range active {
			if slots.Overlap(slot, b.Slot) {
				a.Available = false
				a.State = b.State
				break
			}
		}
		out = append(out, a)
	}
	return out, nil
}

// List returns one page of bookings for administrators.
func (s *Service) List(ctx context.Context, f Filter, p Page) (ListResult, error) {
	if f.State != "" && !f.State.Valid() {
		return ListResult{}, fmt.Errorf("%w: unknown state %q", ErrInvalidRequest, f.State)
	}
	p = p.Normalize()
	bookings, total, err := s.store.List(ctx, f, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Bookings: bookings, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// Revenue reports confirmed revenue per court between two optional days,
// optionally for a single court.
func (s *Service) Revenue(ctx context.Context, from, to, courtID string) (RevenueReport, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := s.parseDay(d); err != nil {
			return RevenueReport{}, err
		}
	}
	if courtID != "" {
		if _, err := s.courts.Get(ctx, courtID); err != nil {
			return RevenueReport{}, err
		}
	}
	rows, err := s.store.Revenue(ctx, from, to, courtID)
	if err != nil {
		return RevenueReport{}, err
	}
	report := RevenueReport{From: from, To: to, CourtID: courtID, Courts: rows}
	for _, r := range rows {
		report.Total += r.Revenue
	}
	return report, nil
}

var csvHeader = []string{"id", "space", "user", "email", "date", "timeSlot", "lighting", "totalPrice", "state", "paymentStatus", "createdAt"}

// ExportCSV writes every booking matching f as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f Filter) error {
	bookings, _, err := s.store.List(ctx, f, 0, 0)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		status := ""
		if b.Payment != nil {
			status = string(b.Payment.Status)
		}
		record := []string{
			b.ID,
			b.CourtName,
			b.UserName,
			b.UserEmail,
			b.Date,
			b.Slot,
			strconv.FormatBool(b.Lighting),
			strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
			string(b.State),
			status,
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AuditLog returns the latest audit entries.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.store.AuditLog(ctx, limit)
}

// publish emits a lifecycle event. Delivery failures never undo the booking change.
func (s *Service) publish(ctx context.Context, eventType pubsub.EventType, b *Booking, reason string) {
	event := pubsub.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		CourtID:    b.CourtID,
		CourtName:  b.CourtName,
		UserID:     b.UserID,
		UserName:   b.UserName,
		UserEmail:  b.UserEmail,
		Date:       b.Date,
		Slot:       b.Slot,
		Total:      b.TotalPrice,
		Reason:     reason,
		DryRun:     pubsub.IsDryRun(ctx),
		OccurredAt: s.now().UTC(),
	}
	if err := s.pubsub.SendMessage(eventType, event); err != nil {
		log.Error("Failed to publish booking event", "error", err, "event", eventType, "bookingID", b.ID)
	}
}
