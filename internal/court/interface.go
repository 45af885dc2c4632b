package court

import (
	"context"

	"github.com/mauv0809/court-reservations/internal/pricing"
)

// CourtStore defines the operations on the court catalog.
type CourtStore interface {
	List(ctx context.Context) ([]Court, error)
	Get(ctx context.Context, courtID string) (*Court, error)
	Update(ctx context.Context, courtID string, patch Patch) (*Court, error)
	Seed(ctx context.Context, courts []Court) error
	PricingCourt(ctx context.Context, courtID string) (pricing.Court, error)
}
