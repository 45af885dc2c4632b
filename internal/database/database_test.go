package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"courts", "users", "bookings", "payments", "audit_log"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_ActiveSlotIndexAllowsFreeDuplicates(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO courts (id, name, type, base_price, special_price, created_at, updated_at) VALUES ('c1', 'Court', 'grass', 50, 30, 0, 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, name, email, dni, password_hash, created_at) VALUES ('u1', 'User', 'u@x.com', '12345678A', 'x', 0)`)
	require.NoError(t, err)

	insert := `INSERT INTO bookings (id, court_id, user_id, date, slot, state, created_at, updated_at) VALUES (?, 'c1', 'u1', '2026-10-20', '19:00-20:30', ?, 0, 0)`
	_, err = db.Exec(insert, "b1", "FREE")
	require.NoError(t, err)
	_, err = db.Exec(insert, "b2", "FREE")
	require.NoError(t, err, "free bookings do not occupy the slot")
	_, err = db.Exec(insert, "b3", "PRE_RESERVED")
	require.NoError(t, err)
	_, err = db.Exec(insert, "b4", "RESERVED")
	assert.Error(t, err, "a second active booking must violate the unique index")
}

func TestInitDB_FileDatabaseIsMigratedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.db")

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO courts (id, name, type, base_price, special_price, created_at, updated_at) VALUES ('c1', 'Court', 'grass', 50, 30, 0, 0)`)
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer teardown()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM courts").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	insert := `INSERT INTO courts (id, name, type, base_price, special_price, created_at, updated_at) VALUES (?, ?, 'grass', 50, 30, 0, 0)`
	_, err = db.Exec(insert, "c1", "Court")
	require.NoError(t, err)

	_, err = db.Exec(insert, "c2", "Court")
	assert.True(t, IsUniqueViolation(err), "duplicate name: %v", err)

	_, err = db.Exec(insert, "c1", "Other")
	assert.True(t, IsUniqueViolation(err), "duplicate id: %v", err)

	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(errors.New("libsql: UNIQUE constraint failed: bookings.court_id")))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
}
