package auth

import (
	"testing"
	"time"

	"github.com/mauv0809/court-reservations/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	u := &user.User{ID: "u1", Email: "a@example.com", Role: user.RoleAdmin}

	token, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Sub)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	u := &user.User{ID: "u1", Role: user.RoleUser}

	other := NewIssuer("other-secret", time.Hour)
	token, err := other.Issue(u)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err = issuer.Issue(u)
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
