package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rewindfm/schedule"
)

type stationRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	StreamUrl string    `db:"stream_url"`
	Timezone  string    `db:"timezone"`
}

func (r stationRow) toStation() schedule.Station {
	return schedule.Station{
		Id:        r.ID,
		Name:      r.Name,
		StreamUrl: r.StreamUrl,
		Timezone:  r.Timezone,
	}
}

type CreateStationParams struct {
	Name      string
	StreamUrl string
	Timezone  string
}

func (q *Queries) CreateStation(ctx context.Context, arg CreateStationParams) (*schedule.Station, error) {
	timezone := arg.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	now := time.Now().UTC()
	station := schedule.Station{
		Id:        uuid.New(),
		Name:      arg.Name,
		StreamUrl: arg.StreamUrl,
		Timezone:  timezone,
	}
	_, err := q.db.ExecContext(ctx, q.db.Rebind(`
		INSERT INTO stations (id, name, stream_url, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), station.Id, station.Name, station.StreamUrl, station.Timezone, now, now)
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// GetFirstStation resolves the station for this single-station deployment: the
// oldest station row, or nil if none has been configured yet.
func (q *Queries) GetFirstStation(ctx context.Context) (*schedule.Station, error) {
	var row stationRow
	err := q.db.GetContext(ctx, &row, `
		SELECT id, name, stream_url, timezone
		FROM stations
		ORDER BY created_at, id
		LIMIT 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	station := row.toStation()
	return &station, nil
}

func (q *Queries) GetStation(ctx context.Context, id uuid.UUID) (*schedule.Station, error) {
	var row stationRow
	err := q.db.GetContext(ctx, &row, q.db.Rebind(`
		SELECT id, name, stream_url, timezone
		FROM stations
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	station := row.toStation()
	return &station, nil
}

func (q *Queries) DeleteStation(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, q.db.Rebind(`DELETE FROM stations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	numRowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if numRowsAffected == 0 {
		return ErrStationNotFound
	}
	return nil
}
