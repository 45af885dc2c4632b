// Package pricing computes what a booking costs for a given court, requester
// tier and lighting choice.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/mauv0809/court-reservations/internal/errs"
)

// ErrCourtNotFound is returned by Quote when the court does not exist.
var ErrCourtNotFound = fmt.Errorf("%w: court", errs.ErrNotFound)

// Tier is the price class of a requester.
type Tier string

const (
	TierOrdinary Tier = "ORDINARY"
	TierSpecial  Tier = "SPECIAL"
)

// Court is the pricing view of a court record.
type Court struct {
	ID                string
	BasePrice         float64
	SpecialPrice      float64
	LightingSurcharge float64
	LightingBundled   bool
}

// Breakdown is the itemised price of one booking.
type Breakdown struct {
	Base            float64 `json:"base"`
	Lighting        float64 `json:"lighting"`
	Total           float64 `json:"total"`
	LightingBundled bool    `json:"lightingBundled"`
}

// Compute prices a booking. Special-tier requesters pay the special price;
// lighting is only charged when requested and not bundled with the court.
func Compute(court Court, tier Tier, wantsLighting bool) Breakdown {
	base := court.BasePrice
	if tier == TierSpecial {
		base = court.SpecialPrice
	}
	var lighting float64
	if wantsLighting && !court.LightingBundled {
		lighting = court.LightingSurcharge
	}
	return Breakdown{
		Base:            base,
		Lighting:        lighting,
		Total:           base + lighting,
		LightingBundled: court.LightingBundled,
	}
}

// CourtLookup resolves a court id to its pricing view. Implementations return
// an error wrapping errs.ErrNotFound for unknown ids.
type CourtLookup interface {
	PricingCourt(ctx context.Context, courtID string) (Court, error)
}

// Calculator prices bookings against courts from a CourtLookup.
type Calculator struct {
	courts CourtLookup
}

// NewCalculator creates a Calculator.
func NewCalculator(courts CourtLookup) *Calculator {
	return &Calculator{courts: courts}
}

// Quote looks up the court and computes the price breakdown.
func (c *Calculator) Quote(ctx context.Context, courtID string, tier Tier, wantsLighting bool) (Breakdown, error) {
	court, err := c.courts.PricingCourt(ctx, courtID)
	if errors.Is(err, errs.ErrNotFound) {
		return Breakdown{}, fmt.Errorf("%w %s", ErrCourtNotFound, courtID)
	}
	if err != nil {
		return Breakdown{}, fmt.Errorf("failed to load court %s: %w", courtID, err)
	}
	return Compute(court, tier, wantsLighting), nil
}
