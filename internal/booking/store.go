package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-reservations/internal/database"
)

// New creates a new BookingStore.
func New(db *sql.DB) BookingStore {
	return &store{
		db: db,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const bookingSelect = `
	SELECT b.id, b.court_id, c.name, b.user_id, u.name, u.email, b.date, b.slot, b.lighting,
		b.total_price, b.state, b.created_at, b.updated_at,
		p.id, p.amount, p.status, p.account_number, p.proof_ref, p.rejection_reason, p.updated_at
	FROM bookings b
	JOIN courts c ON c.id = b.court_id
	JOIN users u ON u.id = b.user_id
	LEFT JOIN payments p ON p.booking_id = b.id`

// Create runs the conflict check and the inserts in one transaction. The partial
// unique index on active slots backs the in-process check: a race lost at the
// storage layer surfaces as ErrSlotTaken as well.
func (s *store) Create(ctx context.Context, b *Booking, conflicts ConflictFunc, audit AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := activeSlots(ctx, tx, b.CourtID, b.Date)
	if err != nil {
		return err
	}
	if conflicts != nil && conflicts(existing) {
		log.Debug("Slot conflicts with an active booking", "courtID", b.CourtID, "date", b.Date, "slot", b.Slot)
		return fmt.Errorf("%w: %s %s", ErrSlotTaken, b.Date, b.Slot)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt, b.UpdatedAt = now, now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, court_id, user_id, date, slot, lighting, total_price, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CourtID, b.UserID, b.Date, b.Slot, b.Lighting, b.TotalPrice, b.State, now.Unix(), now.Unix())
	if database.IsUniqueViolation(err) {
		log.Warn("Lost slot race at the storage layer", "courtID", b.CourtID, "date", b.Date, "slot", b.Slot)
		return fmt.Errorf("%w: %s %s", ErrSlotTaken, b.Date, b.Slot)
	}
	if err != nil {
		log.Error("Failed to insert booking", "error", err, "courtID", b.CourtID)
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if p := b.Payment; p != nil {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.BookingID = b.ID
		p.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (id, booking_id, amount, status, account_number, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.BookingID, p.Amount, p.Status, p.AccountNumber, now.Unix())
		if err != nil {
			log.Error("Failed to insert payment", "error", err, "bookingID", b.ID)
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	audit.BookingID = b.ID
	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, b.Date, b.Slot)
		}
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	log.Info("Created booking", "bookingID", b.ID, "courtID", b.CourtID, "date", b.Date, "slot", b.Slot, "state", b.State)
	return nil
}

func activeSlots(ctx context.Context, q querier, courtID, date string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT slot FROM bookings WHERE court_id = ? AND date = ? AND state <> ?`, courtID, date, StateFree)
	if err != nil {
		log.Error("Failed to query active slots", "error", err, "courtID", courtID, "date", date)
		return nil, fmt.Errorf("failed to query active slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func insertAudit(ctx context.Context, q querier, a AuditEntry) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	var bookingID any
	if a.BookingID != "" {
		bookingID = a.BookingID
	}
	_, err := q.ExecContext(ctx, `INSERT INTO audit_log (id, booking_id, action, user_id, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, bookingID, a.Action, a.UserID, a.Details, a.CreatedAt.Unix())
	if err != nil {
		log.Error("Failed to insert audit entry", "error", err, "action", a.Action, "bookingID", a.BookingID)
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// Get retrieves a booking with its payment.
func (s *store) Get(ctx context.Context, bookingID string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(ctx, s.db, bookingID)
}

func get(ctx context.Context, q querier, bookingID string) (*Booking, error) {
	row := q.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, bookingID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListByUser returns a user's bookings, newest day first.
func (s *store) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, bookingSelect+` WHERE b.user_id = ? ORDER BY b.date DESC, b.slot`, userID)
}

// ListActiveForDay returns the non-free bookings of a court on one day.
func (s *store) ListActiveForDay(ctx context.Context, courtID, date string) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, bookingSelect+` WHERE b.court_id = ? AND b.date = ? AND b.state <> ? ORDER BY b.slot`, courtID, date, StateFree)
}

// List returns one page of bookings matching f and the total number of matches.
func (s *store) List(ctx context.Context, f Filter, limit, offset int) ([]Booking, int, error) {
	var where []string
	var args []any
	if f.State != "" {
		where = append(where, "b.state = ?")
		args = append(args, f.State)
	}
	if f.CourtID != "" {
		where = append(where, "b.court_id = ?")
		args = append(args, f.CourtID)
	}
	if f.UserID != "" {
		where = append(where, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.From != "" {
		where = append(where, "b.date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "b.date <= ?")
		args = append(args, f.To)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+clause, args...).Scan(&total); err != nil {
		log.Error("Failed to count bookings", "error", err)
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := bookingSelect + clause + ` ORDER BY b.date DESC, b.slot, b.created_at DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	bookings, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("Failed to query bookings", "error", err)
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			log.Error("Failed to scan booking row", "error", err)
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Decide applies d if the booking is still in d.From.
func (s *store) Decide(ctx context.Context, bookingID string, d Decision) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current State
	err = tx.QueryRowContext(ctx, `SELECT state FROM bookings WHERE id = ?`, bookingID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking state: %w", err)
	}
	if current != d.From {
		return nil, fmt.Errorf("%w: booking is %s, expected %s", ErrInvalidTransition, current, d.From)
	}

	now := time.Now().UTC().Unix()
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET state = ?, updated_at = ? WHERE id = ?`, d.To, now, bookingID); err != nil {
		log.Error("Failed to update booking state", "error", err, "bookingID", bookingID)
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if d.Payment != "" {
		var reason any
		if d.Reason != "" {
			reason = d.Reason
		}
		_, err := tx.ExecContext(ctx, `UPDATE payments SET status = ?, rejection_reason = ?, updated_at = ? WHERE booking_id = ?`,
			d.Payment, reason, now, bookingID)
		if err != nil {
			log.Error("Failed to update payment status", "error", err, "bookingID", bookingID)
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}
	}
	d.Audit.BookingID = bookingID
	if err := insertAudit(ctx, tx, d.Audit); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit decision: %w", err)
	}
	log.Info("Booking state changed", "bookingID", bookingID, "from", d.From, "to", d.To, "payment", d.Payment)
	return get(ctx, s.db, bookingID)
}

// AttachProof records the reference of an uploaded payment proof.
func (s *store) AttachProof(ctx context.Context, bookingID, proofRef string, audit AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE payments SET proof_ref = ?, updated_at = ? WHERE booking_id = ?`,
		proofRef, time.Now().UTC().Unix(), bookingID)
	if err != nil {
		log.Error("Failed to attach proof", "error", err, "bookingID", bookingID)
		return fmt.Errorf("failed to attach proof: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: no payment for %s", ErrNotFound, bookingID)
	}
	audit.BookingID = bookingID
	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a booking and its payment. The audit entry outlives it.
func (s *store) Delete(ctx context.Context, bookingID string, audit AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	audit.BookingID = ""
	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		log.Error("Failed to delete booking", "error", err, "bookingID", bookingID)
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	log.Info("Deleted booking", "bookingID", bookingID)
	return nil
}

// Revenue sums approved payments of reserved bookings per court. Empty bounds
// and an empty courtID are open.
func (s *store) Revenue(ctx context.Context, from, to, courtID string) ([]RevenueRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(b.id), COALESCE(SUM(p.amount), 0)
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		JOIN payments p ON p.booking_id = b.id
		WHERE b.state = ? AND p.status = ?
			AND (? = '' OR b.date >= ?)
			AND (? = '' OR b.date <= ?)
			AND (? = '' OR b.court_id = ?)
		GROUP BY c.id, c.name
		ORDER BY c.name`,
		StateReserved, PaymentApproved, from, from, to, to, courtID, courtID)
	if err != nil {
		log.Error("Failed to query revenue", "error", err)
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer rows.Close()

	report := []RevenueRow{}
	for rows.Next() {
		var r RevenueRow
		if err := rows.Scan(&r.CourtID, &r.CourtName, &r.Bookings, &r.Revenue); err != nil {
			return nil, err
		}
		report = append(report, r)
	}
	return report, rows.Err()
}

// AuditLog returns the most recent audit entries, newest first.
func (s *store) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(booking_id, ''), action, COALESCE(user_id, ''), COALESCE(details, ''), created_at
		FROM audit_log ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		log.Error("Failed to query audit log", "error", err)
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var a AuditEntry
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Action, &a.UserID, &a.Details, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func scanBooking(scanner interface{ Scan(...any) error }) (*Booking, error) {
	var b Booking
	var createdAt, updatedAt int64
	var (
		paymentID, status, account, proof, reason sql.NullString
		amount                                    sql.NullFloat64
		paymentUpdated                            sql.NullInt64
	)
	err := scanner.Scan(&b.ID, &b.CourtID, &b.CourtName, &b.UserID, &b.UserName, &b.UserEmail, &b.Date, &b.Slot,
		&b.Lighting, &b.TotalPrice, &b.State, &createdAt, &updatedAt,
		&paymentID, &amount, &status, &account, &proof, &reason, &paymentUpdated)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = time.Unix(createdAt, 0).UTC()
	b.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if paymentID.Valid {
		b.Payment = &Payment{
			ID:              paymentID.String,
			BookingID:       b.ID,
			Amount:          amount.Float64,
			Status:          PaymentStatus(status.String),
			AccountNumber:   account.String,
			ProofRef:        proof.String,
			RejectionReason: reason.String,
			UpdatedAt:       time.Unix(paymentUpdated.Int64, 0).UTC(),
		}
	}
	return &b, nil
}
