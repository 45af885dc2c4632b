package user_test

import (
	"context"
	"testing"

	"github.com/mauv0809/court-reservations/internal/database"
	"github.com/mauv0809/court-reservations/internal/errs"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestDB(t *testing.T) (user.UserStore, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	return user.NewWithCost(db, bcrypt.MinCost), teardown
}

func validRegistration() user.Registration {
	return user.Registration{
		Name:     "Ana Pérez",
		Email:    "Ana@Example.com ",
		DNI:      "12345678Z",
		Password: "secret1",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	u, err := store.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, pricing.TierOrdinary, u.Tier())
	assert.NotEqual(t, "secret1", u.PasswordHash)

	got, err := store.Authenticate(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = store.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = store.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = store.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	tests := map[string]func(r *user.Registration){
		"short name":     func(r *user.Registration) { r.Name = "A" },
		"bad email":      func(r *user.Registration) { r.Email = "not-an-email" },
		"bad dni":        func(r *user.Registration) { r.DNI = "1234567Z" },
		"lowercase dni":  func(r *user.Registration) { r.DNI = "12345678z" },
		"short password": func(r *user.Registration) { r.Password = "12345" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			reg := validRegistration()
			mutate(&reg)
			_, err := store.Register(context.Background(), reg)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestSpecialTierRequest(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	reg := validRegistration()
	reg.SpecialTier = true
	u, err := store.Register(ctx, reg)
	require.NoError(t, err)
	assert.True(t, u.SpecialPending)
	assert.Equal(t, pricing.TierOrdinary, u.Tier(), "tier is not granted until approved")

	other := validRegistration()
	other.Email = "luis@example.com"
	other.SpecialTier = true
	denied, err := store.Register(ctx, other)
	require.NoError(t, err)

	pending, err := store.ListPendingSpecial(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	approved, err := store.ResolveSpecialRequest(ctx, u.ID, true)
	require.NoError(t, err)
	assert.Equal(t, user.RoleSpecialUser, approved.Role)
	assert.Equal(t, pricing.TierSpecial, approved.Tier())

	rejected, err := store.ResolveSpecialRequest(ctx, denied.ID, false)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, rejected.Role)
	assert.False(t, rejected.SpecialPending)

	pending, err = store.ListPendingSpecial(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = store.ResolveSpecialRequest(ctx, u.ID, true)
	assert.ErrorIs(t, err, user.ErrNoPendingRequest)

	_, err = store.ResolveSpecialRequest(ctx, "missing", true)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	u, err := store.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.ErrorIs(t, store.ChangePassword(ctx, u.ID, "wrong", "newsecret"), user.ErrInvalidCredentials)
	assert.ErrorIs(t, store.ChangePassword(ctx, u.ID, "secret1", "short"), errs.ErrValidation)
	require.NoError(t, store.ChangePassword(ctx, u.ID, "secret1", "newsecret"))

	_, err = store.Authenticate(ctx, u.Email, "newsecret")
	assert.NoError(t, err)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	reg := user.Registration{Name: "Administrator", Email: "admin@example.com", DNI: "12345678A", Password: "admin123"}
	first, err := store.EnsureAdmin(ctx, reg)
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := store.EnsureAdmin(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
