// Package querytest prepares throwaway databases for tests that exercise real
// SQL: an in-memory SQLite instance migrated to the current schema.
package querytest

import (
	"testing"

	"github.com/GuiaBolso/darwin"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/rewindfm/schedule/internal/migrations"
)

// PrepareDB opens a fresh in-memory SQLite database with foreign keys
// enforced and the full schema applied, closing it when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err, "Failed to open in-memory database")

	// The pool must stay on one connection: every new connection to :memory:
	// would be a separate empty database
	db.SetMaxOpenConns(1)

	require.NoError(t, migrations.Apply(db.DB, darwin.SqliteDialect{}), "Failed to migrate test database")

	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}
