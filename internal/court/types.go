package court

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
)

var (
	ErrNotFound     = fmt.Errorf("%w: court", errs.ErrNotFound)
	ErrInvalidPatch = fmt.Errorf("%w: court update", errs.ErrValidation)
)

// store handles all database operations for courts.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Type is the kind of surface a court has.
type Type string

const (
	TypeGrass    Type = "grass"
	TypeMultiUse Type = "multi"
	TypePadel1   Type = "padel1"
	TypePadel2   Type = "padel2"
)

// Court is a bookable space.
type Court struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              Type      `json:"type"`
	BasePrice         float64   `json:"basePrice"`
	SpecialPrice      float64   `json:"specialPrice"`
	LightingSurcharge float64   `json:"lightingSurcharge"`
	LightingBundled   bool      `json:"lightingBundled"`
	Available         bool      `json:"available"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Pricing returns the pricing view of the court.
func (c Court) Pricing() pricing.Court {
	return pricing.Court{
		ID:                c.ID,
		BasePrice:         c.BasePrice,
		SpecialPrice:      c.SpecialPrice,
		LightingSurcharge: c.LightingSurcharge,
		LightingBundled:   c.LightingBundled,
	}
}

// Patch is a partial update of a court. Nil fields are left untouched.
type Patch struct {
	Name              *string  `json:"name,omitempty"`
	BasePrice         *float64 `json:"basePrice,omitempty"`
	SpecialPrice      *float64 `json:"specialPrice,omitempty"`
	LightingSurcharge *float64 `json:"lightingSurcharge,omitempty"`
	LightingBundled   *bool    `json:"lightingBundled,omitempty"`
	Available         *bool    `json:"available,omitempty"`
}

// Validate rejects empty names, non-positive prices and negative surcharges.
func (p Patch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidPatch)
	}
	if p.BasePrice != nil && *p.BasePrice <= 0 {
		return fmt.Errorf("%w: basePrice must be positive", ErrInvalidPatch)
	}
	if p.SpecialPrice != nil && *p.SpecialPrice <= 0 {
		return fmt.Errorf("%w: specialPrice must be positive", ErrInvalidPatch)
	}
	if p.LightingSurcharge != nil && *p.LightingSurcharge < 0 {
		return fmt.Errorf("%w: lightingSurcharge must not be negative", ErrInvalidPatch)
	}
	return nil
}

func (p Patch) apply(c *Court) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.BasePrice != nil {
		c.BasePrice = *p.BasePrice
	}
	if p.SpecialPrice != nil {
		c.SpecialPrice = *p.SpecialPrice
	}
	if p.LightingSurcharge != nil {
		c.LightingSurcharge = *p.LightingSurcharge
	}
	if p.LightingBundled != nil {
		c.LightingBundled = *p.LightingBundled
	}
	if p.Available != nil {
		c.Available = *p.Available
	}
}

// DefaultCourts returns the facility's four courts with their standard prices.
func DefaultCourts() []Court {
	return []Court{
		{Name: "Grass Court", Type: TypeGrass, BasePrice: 50, SpecialPrice: 30, LightingSurcharge: 5, Available: true},
		{Name: "Multi-use Court", Type: TypeMultiUse, BasePrice: 30, SpecialPrice: 15, LightingSurcharge: 5, Available: true},
		{Name: "Padel Court 1", Type: TypePadel1, BasePrice: 18, SpecialPrice: 10, LightingBundled: true, Available: true},
		{Name: "Padel Court 2", Type: TypePadel2, BasePrice: 18, SpecialPrice: 10, LightingBundled: true, Available: true},
	}
}
