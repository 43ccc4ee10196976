package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rewindfm/schedule"
)

type showRow struct {
	ID          uuid.UUID `db:"id"`
	StationID   uuid.UUID `db:"station_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageUrl    string    `db:"image_url"`
}

func (r showRow) toShow() schedule.Show {
	return schedule.Show{
		Id:          r.ID,
		StationId:   r.StationID,
		Title:       r.Title,
		Description: r.Description,
		ImageUrl:    r.ImageUrl,
	}
}

type CreateShowParams struct {
	StationID   uuid.UUID
	Title       string
	Description string
	ImageUrl    string
}

func (q *Queries) CreateShow(ctx context.Context, arg CreateShowParams) (*schedule.Show, error) {
	now := time.Now().UTC()
	show := schedule.Show{
		Id:          uuid.New(),
		StationId:   arg.StationID,
		Title:       arg.Title,
		Description: arg.Description,
		ImageUrl:    arg.ImageUrl,
	}
	_, err := q.db.ExecContext(ctx, q.db.Rebind(`
		INSERT INTO shows (id, station_id, title, description, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), show.Id, show.StationId, show.Title, show.Description, show.ImageUrl, now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrForeignKeyMissing
		}
		return nil, err
	}
	return &show, nil
}

func (q *Queries) GetShow(ctx context.Context, id uuid.UUID) (*schedule.Show, error) {
	var row showRow
	err := q.db.GetContext(ctx, &row, q.db.Rebind(`
		SELECT id, station_id, title, description, image_url
		FROM shows
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	show := row.toShow()
	return &show, nil
}

// DeleteShow removes a show; its slots and host assignments go with it via
// the schema's cascade rules.
func (q *Queries) DeleteShow(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, q.db.Rebind(`DELETE FROM shows WHERE id = ?`), id)
	if err != nil {
		return err
	}
	numRowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if numRowsAffected == 0 {
		return ErrShowNotFound
	}
	return nil
}

type CreateHostParams struct {
	Name     string
	Role     string
	Bio      string
	ImageUrl string
}

func (q *Queries) CreateHost(ctx context.Context, arg CreateHostParams) (*schedule.Host, error) {
	now := time.Now().UTC()
	host := schedule.Host{
		Id:       uuid.New(),
		Name:     arg.Name,
		Role:     arg.Role,
		Bio:      arg.Bio,
		ImageUrl: arg.ImageUrl,
	}
	_, err := q.db.ExecContext(ctx, q.db.Rebind(`
		INSERT INTO hosts (id, name, role, bio, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), host.Id, host.Name, host.Role, host.Bio, host.ImageUrl, now, now)
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// AssignHostToShow links a host to a show, optionally labeling the
// assignment (e.g. "Main Host").
func (q *Queries) AssignHostToShow(ctx context.Context, hostID uuid.UUID, showID uuid.UUID, label string) error {
	_, err := q.db.ExecContext(ctx, q.db.Rebind(`
		INSERT INTO host_shows (host_id, show_id, label)
		VALUES (?, ?, ?)
	`), hostID, showID, label)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKeyMissing
		}
		return err
	}
	return nil
}
