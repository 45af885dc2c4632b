package court_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/database"
	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database seeded with the default courts.
func setupTestDB(t *testing.T) (court.CourtStore, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := court.New(db)
	require.NoError(t, store.Seed(context.Background(), court.DefaultCourts()))
	return store, db, teardown
}

func findByType(t *testing.T, courts []court.Court, typ court.Type) court.Court {
	t.Helper()
	for _, c := range courts {
		if c.Type == typ {
			return c
		}
	}
	t.Fatalf("no court of type %s", typ)
	return court.Court{}
}

func TestSeedAndList(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	courts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, courts, 4)
	assert.Equal(t, "Grass Court", courts[0].Name, "courts are ordered by name")

	// Seeding again must not duplicate by name.
	require.NoError(t, store.Seed(ctx, court.DefaultCourts()))
	courts, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, courts, 4)

	padel := findByType(t, courts, court.TypePadel1)
	assert.True(t, padel.LightingBundled)
	assert.Equal(t, 18.0, padel.BasePrice)
	assert.Equal(t, 10.0, padel.SpecialPrice)
	assert.True(t, padel.Available)
}

func TestGet(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	courts, err := store.List(ctx)
	require.NoError(t, err)
	grass := findByType(t, courts, court.TypeGrass)

	got, err := store.Get(ctx, grass.ID)
	require.NoError(t, err)
	assert.Equal(t, grass.Name, got.Name)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, court.ErrNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	courts, err := store.List(ctx)
	require.NoError(t, err)
	grass := findByType(t, courts, court.TypeGrass)

	price := 60.0
	available := false
	updated, err := store.Update(ctx, grass.ID, court.Patch{BasePrice: &price, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.BasePrice)
	assert.False(t, updated.Available)
	assert.Equal(t, 30.0, updated.SpecialPrice, "untouched fields are kept")

	reloaded, err := store.Get(ctx, grass.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, reloaded.BasePrice)
	assert.False(t, reloaded.Available)

	t.Run("rejects invalid values", func(t *testing.T) {
		negative := -1.0
		_, err := store.Update(ctx, grass.ID, court.Patch{LightingSurcharge: &negative})
		assert.ErrorIs(t, err, errs.ErrValidation)

		zero := 0.0
		_, err = store.Update(ctx, grass.ID, court.Patch{SpecialPrice: &zero})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown court", func(t *testing.T) {
		_, err := store.Update(ctx, "missing", court.Patch{Available: &available})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestPricingCourtFeedsCalculator(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	courts, err := store.List(ctx)
	require.NoError(t, err)
	grass := findByType(t, courts, court.TypeGrass)
	padel := findByType(t, courts, court.TypePadel2)

	calc := pricing.NewCalculator(store)

	quote, err := calc.Quote(ctx, grass.ID, pricing.TierOrdinary, true)
	require.NoError(t, err)
	assert.Equal(t, 55.0, quote.Total)

	quote, err = calc.Quote(ctx, padel.ID, pricing.TierSpecial, true)
	require.NoError(t, err)
	assert.Equal(t, 10.0, quote.Total)

	_, err = calc.Quote(ctx, "missing", pricing.TierOrdinary, false)
	assert.ErrorIs(t, err, pricing.ErrCourtNotFound)
}
