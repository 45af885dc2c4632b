package config

import (
	"os"
	"testing"
	"time"

	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "reservations.db", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "12345", cfg.Payment.BizumNumber)
	assert.Equal(t, slots.DefaultCatalog(), cfg.Catalog())
	assert.Equal(t, "Europe/Madrid", cfg.Location().String())
}

func TestParse_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Parse()
	assert.Error(t, err)

	os.Unsetenv("JWT_SECRET")
	_, err = Parse()
	assert.Error(t, err)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("BIZUM_NUMBER", "600111222")
	t.Setenv("TURSO_PRIMARY_URL", "libsql://example.turso.io")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("SLOTS_WEEKDAY", "18:00-19:30,19:30-21:00")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "600111222", cfg.Public().BizumNumber)
	assert.Equal(t, "libsql://example.turso.io", cfg.Turso.PrimaryURL)
	assert.Equal(t, "C123", cfg.Slack.ChannelID)
	assert.Equal(t, []string{"18:00-19:30", "19:30-21:00"}, cfg.Catalog().Weekday)
	assert.Equal(t, slots.DefaultCatalog().Weekend, cfg.Catalog().Weekend)
}

func TestParse_TrimsCatalogEntries(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SLOTS_WEEKDAY", "17:30-19:00, 19:00-20:30 ,20:30-22:00")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"17:30-19:00", "19:00-20:30", "20:30-22:00"}, cfg.Catalog().Weekday)
}

func TestParse_RejectsBadCatalogAndTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("SLOTS_WEEKEND", "8-9")
	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("SLOTS_WEEKEND", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Parse()
	assert.Error(t, err)
}
