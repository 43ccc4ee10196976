// Package migrations owns the schedule service's database schema, applied at
// startup with darwin so that the same versioned scripts run against Postgres
// in production and SQLite in tests.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/GuiaBolso/darwin"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

var scripts = []struct {
	version     float64
	description string
	filename    string
}{
	{1, "Create station, show, host, and schedule tables", "sql/001_initial_schema.sql"},
	{2, "Index schedule slots for lineup and now-playing lookups", "sql/002_schedule_slot_indexes.sql"},
}

// Apply brings the database up to the current schema version.
func Apply(db *sql.DB, dialect darwin.Dialect) error {
	migrations := make([]darwin.Migration, 0, len(scripts))
	for _, s := range scripts {
		script, err := sqlFiles.ReadFile(s.filename)
		if err != nil {
			return fmt.Errorf("failed to read embedded migration %s: %w", s.filename, err)
		}
		migrations = append(migrations, darwin.Migration{
			Version:     s.version,
			Description: s.description,
			Script:      string(script),
		})
	}
	d := darwin.New(darwin.NewGenericDriver(db, dialect), migrations, nil)
	return d.Migrate()
}
