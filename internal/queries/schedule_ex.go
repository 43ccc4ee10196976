package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rewindfm/schedule"
)

// scheduleRow is a slot LEFT JOINed with its show: the show columns are
// nullable because a slot can briefly outlive its show between dependent
// deletes, and read paths must tolerate that rather than fail.
type scheduleRow struct {
	ID              uuid.UUID      `db:"id"`
	StationID       uuid.UUID      `db:"station_id"`
	ShowID          uuid.UUID      `db:"show_id"`
	DayOfWeek       int            `db:"day_of_week"`
	StartMin        int            `db:"start_min"`
	EndMin          int            `db:"end_min"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	ShowJoinID      sql.NullString `db:"show_join_id"`
	ShowTitle       sql.NullString `db:"show_title"`
	ShowDescription sql.NullString `db:"show_description"`
	ShowImageUrl    sql.NullString `db:"show_image_url"`
}

type ListScheduleParams struct {
	StationID uuid.UUID
	DayOfWeek *int
}

// ListScheduleWithShows returns a station's slots joined with show display
// data, in canonical presentation order (day, start, id). Slots whose show is
// gone come back with a nil Show.
func (q *Queries) ListScheduleWithShows(ctx context.Context, arg ListScheduleParams) ([]schedule.SlotWithShow, error) {
	query := `
		SELECT s.id, s.station_id, s.show_id, s.day_of_week, s.start_min, s.end_min, s.created_at, s.updated_at,
		       sh.id AS show_join_id, sh.title AS show_title, sh.description AS show_description, sh.image_url AS show_image_url
		FROM schedule_slots s
		LEFT JOIN shows sh ON sh.id = s.show_id
		WHERE s.station_id = ?
	`
	args := []interface{}{arg.StationID}
	if arg.DayOfWeek != nil {
		query += ` AND s.day_of_week = ?`
		args = append(args, *arg.DayOfWeek)
	}
	query += ` ORDER BY s.day_of_week, s.start_min, s.id`

	var rows []scheduleRow
	if err := q.db.SelectContext(ctx, &rows, q.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	items := make([]schedule.SlotWithShow, 0, len(rows))
	for _, row := range rows {
		item := schedule.SlotWithShow{
			Slot: schedule.Slot{
				Id:        row.ID,
				StationId: row.StationID,
				ShowId:    row.ShowID,
				DayOfWeek: row.DayOfWeek,
				StartMin:  row.StartMin,
				EndMin:    row.EndMin,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
		}
		if row.ShowJoinID.Valid {
			showID, err := uuid.Parse(row.ShowJoinID.String)
			if err != nil {
				return nil, err
			}
			item.Show = &schedule.ShowRef{
				Id:          showID,
				Title:       row.ShowTitle.String,
				Description: row.ShowDescription.String,
				ImageUrl:    row.ShowImageUrl.String,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ListHostsByShows returns the hosts assigned to each of the given shows,
// keyed by show ID and ordered by host name. Shows without hosts simply have
// no entry in the result.
func (q *Queries) ListHostsByShows(ctx context.Context, showIDs []uuid.UUID) (map[uuid.UUID][]schedule.HostRef, error) {
	hostsByShow := make(map[uuid.UUID][]schedule.HostRef)
	if len(showIDs) == 0 {
		return hostsByShow, nil
	}
	ids := make([]string, 0, len(showIDs))
	for _, id := range showIDs {
		ids = append(ids, id.String())
	}
	query, args, err := sqlx.In(`
		SELECT hs.show_id, h.id, h.name, h.image_url
		FROM host_shows hs
		JOIN hosts h ON h.id = hs.host_id
		WHERE hs.show_id IN (?)
		ORDER BY h.name, h.id
	`, ids)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ShowID   uuid.UUID `db:"show_id"`
		ID       uuid.UUID `db:"id"`
		Name     string    `db:"name"`
		ImageUrl string    `db:"image_url"`
	}
	if err := q.db.SelectContext(ctx, &rows, q.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		hostsByShow[row.ShowID] = append(hostsByShow[row.ShowID], schedule.HostRef{
			Id:        row.ID,
			Name:      row.Name,
			AvatarUrl: row.ImageUrl,
		})
	}
	return hostsByShow, nil
}
