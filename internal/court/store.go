package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/court-reservations/internal/pricing"
)

// New creates a new CourtStore.
func New(db *sql.DB) CourtStore {
	return &store{
		db: db,
	}
}

var _ pricing.CourtLookup = (*store)(nil)

const courtColumns = `id, name, type, base_price, special_price, lighting_surcharge, lighting_bundled, available, created_at, updated_at`

// List returns every court ordered by name.
func (s *store) List(ctx context.Context) ([]Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+courtColumns+` FROM courts ORDER BY name`)
	if err != nil {
		log.Error("Failed to query courts", "error", err)
		return nil, err
	}
	defer rows.Close()

	courts := []Court{}
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			log.Error("Failed to scan court row", "error", err)
			continue
		}
		courts = append(courts, *c)
	}
	return courts, rows.Err()
}

// Get retrieves a court by id.
func (s *store) Get(ctx context.Context, courtID string) (*Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, courtID)
}

func (s *store) get(ctx context.Context, courtID string) (*Court, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = ?`, courtID)
	c, err := scanCourt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, courtID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get court: %w", err)
	}
	return c, nil
}

// PricingCourt implements pricing.CourtLookup.
func (s *store) PricingCourt(ctx context.Context, courtID string) (pricing.Court, error) {
	c, err := s.Get(ctx, courtID)
	if err != nil {
		return pricing.Court{}, err
	}
	return c.Pricing(), nil
}

// Update applies a partial update. Pricing changes never touch existing bookings.
func (s *store) Update(ctx context.Context, courtID string, patch Patch) (*Court, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, courtID)
	if err != nil {
		return nil, err
	}
	patch.apply(c)
	c.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE courts SET
			name = ?, base_price = ?, special_price = ?, lighting_surcharge = ?,
			lighting_bundled = ?, available = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.BasePrice, c.SpecialPrice, c.LightingSurcharge, c.LightingBundled, c.Available, c.UpdatedAt.Unix(), c.ID)
	if err != nil {
		log.Error("Failed to update court", "error", err, "courtID", courtID)
		return nil, fmt.Errorf("failed to update court: %w", err)
	}
	log.Info("Updated court", "courtID", c.ID, "name", c.Name)
	return c, nil
}

// Seed inserts the given courts, skipping any whose name already exists.
func (s *store) Seed(ctx context.Context, courts []Court) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO courts (`+courtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Unix()
	for _, c := range courts {
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}
		res, err := stmt.ExecContext(ctx, id, c.Name, c.Type, c.BasePrice, c.SpecialPrice, c.LightingSurcharge, c.LightingBundled, c.Available, now, now)
		if err != nil {
			return fmt.Errorf("failed to seed court %s: %w", c.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Info("Seeded court", "name", c.Name, "courtID", id)
		}
	}
	return tx.Commit()
}

func scanCourt(scanner interface{ Scan(...any) error }) (*Court, error) {
	var c Court
	var createdAt, updatedAt int64
	err := scanner.Scan(&c.ID, &c.Name, &c.Type, &c.BasePrice, &c.SpecialPrice, &c.LightingSurcharge,
		&c.LightingBundled, &c.Available, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &c, nil
}
