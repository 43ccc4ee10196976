package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rewindfm/schedule"
)

type slotRow struct {
	ID        uuid.UUID `db:"id"`
	StationID uuid.UUID `db:"station_id"`
	ShowID    uuid.UUID `db:"show_id"`
	DayOfWeek int       `db:"day_of_week"`
	StartMin  int       `db:"start_min"`
	EndMin    int       `db:"end_min"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r slotRow) toSlot() schedule.Slot {
	return schedule.Slot{
		Id:        r.ID,
		StationId: r.StationID,
		ShowId:    r.ShowID,
		DayOfWeek: r.DayOfWeek,
		StartMin:  r.StartMin,
		EndMin:    r.EndMin,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type CreateSlotParams struct {
	StationID uuid.UUID
	ShowID    uuid.UUID
	DayOfWeek int
	StartMin  int
	EndMin    int
}

func (q *Queries) CreateSlot(ctx context.Context, arg CreateSlotParams) (*schedule.Slot, error) {
	now := time.Now().UTC()
	slot := schedule.Slot{
		Id:        uuid.New(),
		StationId: arg.StationID,
		ShowId:    arg.ShowID,
		DayOfWeek: arg.DayOfWeek,
		StartMin:  arg.StartMin,
		EndMin:    arg.EndMin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := q.db.ExecContext(ctx, q.db.Rebind(`
		INSERT INTO schedule_slots (id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), slot.Id, slot.StationId, slot.ShowId, slot.DayOfWeek, slot.StartMin, slot.EndMin, slot.CreatedAt, slot.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrForeignKeyMissing
		}
		return nil, err
	}
	return &slot, nil
}

type UpdateSlotParams struct {
	ID        uuid.UUID
	ShowID    uuid.UUID
	DayOfWeek int
	StartMin  int
	EndMin    int
}

func (q *Queries) UpdateSlot(ctx context.Context, arg UpdateSlotParams) (*schedule.Slot, error) {
	result, err := q.db.ExecContext(ctx, q.db.Rebind(`
		UPDATE schedule_slots
		SET show_id = ?, day_of_week = ?, start_min = ?, end_min = ?, updated_at = ?
		WHERE id = ?
	`), arg.ShowID, arg.DayOfWeek, arg.StartMin, arg.EndMin, time.Now().UTC(), arg.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrForeignKeyMissing
		}
		return nil, err
	}
	numRowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if numRowsAffected == 0 {
		return nil, ErrSlotNotFound
	}
	return q.GetSlot(ctx, arg.ID)
}

func (q *Queries) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, q.db.Rebind(`DELETE FROM schedule_slots WHERE id = ?`), id)
	if err != nil {
		return err
	}
	numRowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if numRowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (q *Queries) GetSlot(ctx context.Context, id uuid.UUID) (*schedule.Slot, error) {
	var row slotRow
	err := q.db.GetContext(ctx, &row, q.db.Rebind(`
		SELECT id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at
		FROM schedule_slots
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	slot := row.toSlot()
	return &slot, nil
}

// ListSlotsByStation returns all of a station's slots in canonical
// presentation order: day, then start time, with slot ID as a tie-break so
// the order is total.
func (q *Queries) ListSlotsByStation(ctx context.Context, stationID uuid.UUID) ([]schedule.Slot, error) {
	var rows []slotRow
	err := q.db.SelectContext(ctx, &rows, q.db.Rebind(`
		SELECT id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at
		FROM schedule_slots
		WHERE station_id = ?
		ORDER BY day_of_week, start_min, id
	`), stationID)
	if err != nil {
		return nil, err
	}
	slots := make([]schedule.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toSlot())
	}
	return slots, nil
}

func (q *Queries) ListSlotsByStationAndDay(ctx context.Context, stationID uuid.UUID, dayOfWeek int) ([]schedule.Slot, error) {
	var rows []slotRow
	err := q.db.SelectContext(ctx, &rows, q.db.Rebind(`
		SELECT id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at
		FROM schedule_slots
		WHERE station_id = ? AND day_of_week = ?
		ORDER BY start_min, id
	`), stationID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	slots := make([]schedule.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toSlot())
	}
	return slots, nil
}

func (q *Queries) ListSlotsByShow(ctx context.Context, showID uuid.UUID) ([]schedule.Slot, error) {
	var rows []slotRow
	err := q.db.SelectContext(ctx, &rows, q.db.Rebind(`
		SELECT id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at
		FROM schedule_slots
		WHERE show_id = ?
		ORDER BY day_of_week, start_min, id
	`), showID)
	if err != nil {
		return nil, err
	}
	slots := make([]schedule.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toSlot())
	}
	return slots, nil
}

type FindActiveSlotParams struct {
	StationID uuid.UUID
	DayOfWeek int
	Minute    int
}

// FindActiveSlot returns the slot covering the given minute of the given day,
// or nil if nothing is scheduled then. The range is half-open, so a slot no
// longer matches at its end minute. If overlapping slots exist the one with
// the smallest start wins.
func (q *Queries) FindActiveSlot(ctx context.Context, arg FindActiveSlotParams) (*schedule.Slot, error) {
	var row slotRow
	err := q.db.GetContext(ctx, &row, q.db.Rebind(`
		SELECT id, station_id, show_id, day_of_week, start_min, end_min, created_at, updated_at
		FROM schedule_slots
		WHERE station_id = ? AND day_of_week = ? AND start_min <= ? AND end_min > ?
		ORDER BY start_min, id
		LIMIT 1
	`), arg.StationID, arg.DayOfWeek, arg.Minute, arg.Minute)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	slot := row.toSlot()
	return &slot, nil
}

type CountOverlappingSlotsParams struct {
	StationID uuid.UUID
	ExcludeID uuid.UUID
	DayOfWeek int
	StartMin  int
	EndMin    int
}

// CountOverlappingSlots counts slots on the same station and day whose
// half-open range intersects [StartMin, EndMin), excluding the slot being
// edited (pass uuid.Nil when creating).
func (q *Queries) CountOverlappingSlots(ctx context.Context, arg CountOverlappingSlotsParams) (int, error) {
	var n int
	err := q.db.GetContext(ctx, &n, q.db.Rebind(`
		SELECT COUNT(1)
		FROM schedule_slots
		WHERE station_id = ? AND day_of_week = ? AND id <> ? AND start_min < ? AND end_min > ?
	`), arg.StationID, arg.DayOfWeek, arg.ExcludeID, arg.EndMin, arg.StartMin)
	if err != nil {
		return 0, err
	}
	return n, nil
}
