package state

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rewindfm/schedule"
	"github.com/rewindfm/schedule/internal/queries"
	"github.com/rewindfm/schedule/internal/rmq"
)

var ErrBadDay = errors.New("dayOfWeek must be an integer between 0 and 6")
var ErrMissingShow = errors.New("a show is required for every schedule slot")
var ErrBadTime = errors.New("start and end must be minutes between 0 and 1440")
var ErrInvertedRange = errors.New("a slot must start before it ends")
var ErrSlotOverlap = errors.New("the slot overlaps an existing slot on the same day")
var ErrNoStation = errors.New("no station is configured")

var slotWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "schedule_slot_writes_total",
	Help: "Number of successful schedule slot mutations, by operation.",
}, []string{"op"})

// Writer is the sole mutation path for the weekly schedule: every write is
// validated, applied to the store, and announced on the schedule-events queue
// so that downstream consumers (the site player included) stay in sync.
type Writer interface {
	CreateSlot(ctx context.Context, req schedule.SlotRequest) (*schedule.Slot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, patch schedule.SlotPatch) (*schedule.Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

func NewWriter(q *queries.Queries, producer rmq.Producer) Writer {
	return &writer{
		q:        q,
		producer: producer,
	}
}

type writer struct {
	q        *queries.Queries
	producer rmq.Producer
}

// validateSlot applies the structural slot rules in a fixed order, so that
// the admin UI always surfaces the same complaint for the same bad input. The
// overlap rule needs the store and is checked separately.
func validateSlot(dayOfWeek int, showId string, startMin int, endMin int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ErrBadDay
	}
	if showId == "" {
		return ErrMissingShow
	}
	if startMin < 0 || startMin > 1439 || endMin < 1 || endMin > 1440 {
		return ErrBadTime
	}
	if startMin >= endMin {
		return ErrInvertedRange
	}
	return nil
}

func (w *writer) checkOverlap(ctx context.Context, stationID uuid.UUID, excludeID uuid.UUID, dayOfWeek int, startMin int, endMin int) error {
	n, err := w.q.CountOverlappingSlots(ctx, queries.CountOverlappingSlotsParams{
		StationID: stationID,
		ExcludeID: excludeID,
		DayOfWeek: dayOfWeek,
		StartMin:  startMin,
		EndMin:    endMin,
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotOverlap
	}
	return nil
}

func (w *writer) CreateSlot(ctx context.Context, req schedule.SlotRequest) (*schedule.Slot, error) {
	// Reject structurally invalid input before touching the store
	if err := validateSlot(req.DayOfWeek, req.ShowId, req.StartMin, req.EndMin); err != nil {
		return nil, err
	}
	showID, err := uuid.Parse(req.ShowId)
	if err != nil {
		return nil, queries.ErrShowNotFound
	}

	// Slots always belong to the deployment's single configured station
	station, err := w.q.GetFirstStation(ctx)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, ErrNoStation
	}

	// Require that the show exists, so the admin UI gets a precise complaint
	// instead of a bare foreign-key failure
	if _, err := w.q.GetShow(ctx, showID); err != nil {
		return nil, err
	}

	// Two shows can't be co-scheduled: a new slot must not intersect any
	// existing slot on the same day
	if err := w.checkOverlap(ctx, station.Id, uuid.Nil, req.DayOfWeek, req.StartMin, req.EndMin); err != nil {
		return nil, err
	}

	slot, err := w.q.CreateSlot(ctx, queries.CreateSlotParams{
		StationID: station.Id,
		ShowID:    showID,
		DayOfWeek: req.DayOfWeek,
		StartMin:  req.StartMin,
		EndMin:    req.EndMin,
	})
	if err != nil {
		return nil, err
	}

	// Announce the change to all downstream consumers
	if err := w.produce(ctx, &schedule.Event{
		Type: schedule.EventTypeSlotCreated,
		Slot: *slot,
	}); err != nil {
		return nil, err
	}
	slotWrites.WithLabelValues("created").Inc()
	return slot, nil
}

func (w *writer) UpdateSlot(ctx context.Context, id uuid.UUID, patch schedule.SlotPatch) (*schedule.Slot, error) {
	// Load the existing slot and merge the patch over it, so that fields the
	// admin didn't touch stay as they were
	existing, err := w.q.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	dayOfWeek := existing.DayOfWeek
	if patch.DayOfWeek != nil {
		dayOfWeek = *patch.DayOfWeek
	}
	showId := existing.ShowId.String()
	if patch.ShowId != nil {
		showId = *patch.ShowId
	}
	startMin := existing.StartMin
	if patch.StartMin != nil {
		startMin = *patch.StartMin
	}
	endMin := existing.EndMin
	if patch.EndMin != nil {
		endMin = *patch.EndMin
	}

	// The merged slot has to satisfy the same rules as a new one
	if err := validateSlot(dayOfWeek, showId, startMin, endMin); err != nil {
		return nil, err
	}
	showID, err := uuid.Parse(showId)
	if err != nil {
		return nil, queries.ErrShowNotFound
	}
	if showID != existing.ShowId {
		if _, err := w.q.GetShow(ctx, showID); err != nil {
			return nil, err
		}
	}

	// The slot being edited doesn't conflict with itself
	if err := w.checkOverlap(ctx, existing.StationId, id, dayOfWeek, startMin, endMin); err != nil {
		return nil, err
	}

	slot, err := w.q.UpdateSlot(ctx, queries.UpdateSlotParams{
		ID:        id,
		ShowID:    showID,
		DayOfWeek: dayOfWeek,
		StartMin:  startMin,
		EndMin:    endMin,
	})
	if err != nil {
		return nil, err
	}

	if err := w.produce(ctx, &schedule.Event{
		Type: schedule.EventTypeSlotUpdated,
		Slot: *slot,
	}); err != nil {
		return nil, err
	}
	slotWrites.WithLabelValues("updated").Inc()
	return slot, nil
}

func (w *writer) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	// Fetch the slot first so the deletion event can carry its payload;
	// deleting an id that was never there is a failure, not a no-op
	slot, err := w.q.GetSlot(ctx, id)
	if err != nil {
		return err
	}
	if err := w.q.DeleteSlot(ctx, id); err != nil {
		return err
	}

	if err := w.produce(ctx, &schedule.Event{
		Type: schedule.EventTypeSlotDeleted,
		Slot: *slot,
	}); err != nil {
		return err
	}
	slotWrites.WithLabelValues("deleted").Inc()
	return nil
}

func (w *writer) produce(ctx context.Context, ev *schedule.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return w.producer.Send(ctx, data)
}
