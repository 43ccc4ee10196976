// Package queries is the schedule service's data-access layer: hand-written
// SQL over sqlx, portable between Postgres (production, via lib/pq) and
// SQLite (tests, via mattn/go-sqlite3). Statements are written with '?'
// placeholders and rebound for the active driver.
package queries

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

var ErrSlotNotFound = errors.New("no such schedule slot")
var ErrShowNotFound = errors.New("no such show")
var ErrStationNotFound = errors.New("no such station")
var ErrForeignKeyMissing = errors.New("referenced show or station does not exist")

type Queries struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
