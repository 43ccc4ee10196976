package state

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindfm/schedule"
	"github.com/rewindfm/schedule/internal/queries"
	"github.com/rewindfm/schedule/internal/querytest"
)

func Test_validateSlot(t *testing.T) {
	showId := uuid.NewString()
	tests := []struct {
		name      string
		dayOfWeek int
		showId    string
		startMin  int
		endMin    int
		wantErr   error
	}{
		{"a well-formed slot is accepted", 3, showId, 360, 600, nil},
		{"midnight-to-midnight is accepted", 0, showId, 0, 1440, nil},
		{"negative day is rejected", -1, showId, 360, 600, ErrBadDay},
		{"day past Saturday is rejected", 7, showId, 360, 600, ErrBadDay},
		{"missing show is rejected", 3, "", 360, 600, ErrMissingShow},
		{"negative start is rejected", 3, showId, -1, 600, ErrBadTime},
		{"start past end of day is rejected", 3, showId, 1440, 1500, ErrBadTime},
		{"end past end of day is rejected", 3, showId, 360, 1441, ErrBadTime},
		{"zero-length slot is rejected", 3, showId, 360, 360, ErrInvertedRange},
		{"inverted range is rejected", 3, showId, 600, 360, ErrInvertedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSlot(tt.dayOfWeek, tt.showId, tt.startMin, tt.endMin)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func prepareWriter(t *testing.T) (*queries.Queries, Writer, *mockProducer) {
	t.Helper()
	db := querytest.PrepareDB(t)
	q := queries.New(db)
	producer := &mockProducer{}
	return q, NewWriter(q, producer), producer
}

func seedStationAndShow(t *testing.T, q *queries.Queries) (*schedule.Station, *schedule.Show) {
	t.Helper()
	station, err := q.CreateStation(context.Background(), queries.CreateStationParams{Name: "Rewind FM", Timezone: "UTC"})
	require.NoError(t, err)
	show, err := q.CreateShow(context.Background(), queries.CreateShowParams{
		StationID: station.Id,
		Title:     "Morning Drive",
	})
	require.NoError(t, err)
	return station, show
}

func Test_Writer_CreateSlot(t *testing.T) {
	q, w, producer := prepareWriter(t)
	station, show := seedStationAndShow(t, q)

	slot, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  360,
		EndMin:    600,
	})
	assert.NoError(t, err)
	assert.Equal(t, station.Id, slot.StationId)
	assert.Equal(t, show.Id, slot.ShowId)

	// The write was announced on schedule-events
	require.Len(t, producer.sent, 1)
	var ev schedule.Event
	require.NoError(t, json.Unmarshal(producer.sent[0], &ev))
	assert.Equal(t, schedule.EventTypeSlotCreated, ev.Type)
	assert.Equal(t, slot.Id, ev.Slot.Id)

	// A second slot intersecting the first on the same day is refused
	_, err = w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  420,
		EndMin:    660,
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Back-to-back slots are fine: ranges are half-open
	_, err = w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  600,
		EndMin:    660,
	})
	assert.NoError(t, err)

	// A show id that isn't a UUID, or that doesn't exist, is a precise
	// complaint rather than a foreign-key failure
	_, err = w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 2,
		ShowId:    "not-a-uuid",
		StartMin:  360,
		EndMin:    600,
	})
	assert.ErrorIs(t, err, queries.ErrShowNotFound)
	_, err = w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 2,
		ShowId:    uuid.NewString(),
		StartMin:  360,
		EndMin:    600,
	})
	assert.ErrorIs(t, err, queries.ErrShowNotFound)
}

func Test_Writer_CreateSlot_NoStation(t *testing.T) {
	_, w, producer := prepareWriter(t)

	_, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    uuid.NewString(),
		StartMin:  360,
		EndMin:    600,
	})
	assert.ErrorIs(t, err, ErrNoStation)
	assert.Len(t, producer.sent, 0)
}

func Test_Writer_UpdateSlot(t *testing.T) {
	q, w, producer := prepareWriter(t)
	_, show := seedStationAndShow(t, q)

	slot, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  360,
		EndMin:    600,
	})
	require.NoError(t, err)

	// Patch only the start; day, show, and end stay as they were
	newStart := 420
	updated, err := w.UpdateSlot(context.Background(), slot.Id, schedule.SlotPatch{
		StartMin: &newStart,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.DayOfWeek)
	assert.Equal(t, show.Id, updated.ShowId)
	assert.Equal(t, 420, updated.StartMin)
	assert.Equal(t, 600, updated.EndMin)

	require.Len(t, producer.sent, 2)
	var ev schedule.Event
	require.NoError(t, json.Unmarshal(producer.sent[1], &ev))
	assert.Equal(t, schedule.EventTypeSlotUpdated, ev.Type)

	// A merged patch still has to pass validation
	badEnd := 300
	_, err = w.UpdateSlot(context.Background(), slot.Id, schedule.SlotPatch{EndMin: &badEnd})
	assert.ErrorIs(t, err, ErrInvertedRange)

	// The slot doesn't conflict with itself, but it does with its neighbors
	otherStart, otherEnd := 660, 720
	other, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  otherStart,
		EndMin:    otherEnd,
	})
	require.NoError(t, err)
	squeeze := 600
	_, err = w.UpdateSlot(context.Background(), other.Id, schedule.SlotPatch{StartMin: &squeeze})
	assert.NoError(t, err)
	collide := 500
	_, err = w.UpdateSlot(context.Background(), other.Id, schedule.SlotPatch{StartMin: &collide})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Unknown ids report not-found
	_, err = w.UpdateSlot(context.Background(), uuid.New(), schedule.SlotPatch{StartMin: &newStart})
	assert.ErrorIs(t, err, queries.ErrSlotNotFound)
}

func Test_Writer_DeleteSlot(t *testing.T) {
	q, w, producer := prepareWriter(t)
	_, show := seedStationAndShow(t, q)

	slot, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 6,
		ShowId:    show.Id.String(),
		StartMin:  600,
		EndMin:    720,
	})
	require.NoError(t, err)

	assert.NoError(t, w.DeleteSlot(context.Background(), slot.Id))

	// The deletion event carries the removed slot's payload
	require.Len(t, producer.sent, 2)
	var ev schedule.Event
	require.NoError(t, json.Unmarshal(producer.sent[1], &ev))
	assert.Equal(t, schedule.EventTypeSlotDeleted, ev.Type)
	assert.Equal(t, slot.Id, ev.Slot.Id)

	assert.ErrorIs(t, w.DeleteSlot(context.Background(), slot.Id), queries.ErrSlotNotFound)
}

func Test_Writer_ProduceFailure(t *testing.T) {
	db := querytest.PrepareDB(t)
	q := queries.New(db)
	producer := &mockProducer{err: fmt.Errorf("amqp is down")}
	w := NewWriter(q, producer)
	_, show := seedStationAndShow(t, q)

	_, err := w.CreateSlot(context.Background(), schedule.SlotRequest{
		DayOfWeek: 1,
		ShowId:    show.Id.String(),
		StartMin:  360,
		EndMin:    600,
	})
	assert.ErrorContains(t, err, "amqp is down")
}

type mockProducer struct {
	sent [][]byte
	err  error
}

func (m *mockProducer) Send(ctx context.Context, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}
