package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	grass = Court{ID: "grass", BasePrice: 50, SpecialPrice: 30, LightingSurcharge: 5}
	padel = Court{ID: "padel-1", BasePrice: 18, SpecialPrice: 10, LightingBundled: true}
)

type lookupFunc func(ctx context.Context, courtID string) (Court, error)

func (f lookupFunc) PricingCourt(ctx context.Context, courtID string) (Court, error) {
	return f(ctx, courtID)
}

func courtsByID(courts ...Court) CourtLookup {
	return lookupFunc(func(_ context.Context, id string) (Court, error) {
		for _, c := range courts {
			if c.ID == id {
				return c, nil
			}
		}
		return Court{}, fmt.Errorf("court %s: %w", id, errs.ErrNotFound)
	})
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		court    Court
		tier     Tier
		lighting bool
		want     Breakdown
	}{
		{
			name:     "special tier on padel with bundled lighting pays special price only",
			court:    padel,
			tier:     TierSpecial,
			lighting: true,
			want:     Breakdown{Base: 10, Lighting: 0, Total: 10, LightingBundled: true},
		},
		{
			name:     "ordinary tier on padel pays base price",
			court:    padel,
			tier:     TierOrdinary,
			lighting: true,
			want:     Breakdown{Base: 18, Lighting: 0, Total: 18, LightingBundled: true},
		},
		{
			name:     "ordinary tier on grass with lighting pays surcharge",
			court:    grass,
			tier:     TierOrdinary,
			lighting: true,
			want:     Breakdown{Base: 50, Lighting: 5, Total: 55},
		},
		{
			name:     "ordinary tier on grass without lighting",
			court:    grass,
			tier:     TierOrdinary,
			lighting: false,
			want:     Breakdown{Base: 50, Lighting: 0, Total: 50},
		},
		{
			name:     "special tier on grass with lighting",
			court:    grass,
			tier:     TierSpecial,
			lighting: true,
			want:     Breakdown{Base: 30, Lighting: 5, Total: 35},
		},
		{
			name:     "two decimal prices add exactly",
			court:    Court{BasePrice: 12.5, SpecialPrice: 7.25, LightingSurcharge: 2.5},
			tier:     TierSpecial,
			lighting: true,
			want:     Breakdown{Base: 7.25, Lighting: 2.5, Total: 9.75},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.court, tt.tier, tt.lighting))
		})
	}
}

func TestCalculatorQuote(t *testing.T) {
	calc := NewCalculator(courtsByID(grass, padel))

	t.Run("prices a known court", func(t *testing.T) {
		got, err := calc.Quote(context.Background(), "grass", TierOrdinary, true)
		require.NoError(t, err)
		assert.Equal(t, 55.0, got.Total)
	})

	t.Run("unknown court is not found", func(t *testing.T) {
		_, err := calc.Quote(context.Background(), "missing", TierOrdinary, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCourtNotFound)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("lookup failures are not reported as not found", func(t *testing.T) {
		boom := errors.New("database is locked")
		calc := NewCalculator(lookupFunc(func(context.Context, string) (Court, error) {
			return Court{}, boom
		}))
		_, err := calc.Quote(context.Background(), "grass", TierOrdinary, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, errs.ErrNotFound)
	})
}
