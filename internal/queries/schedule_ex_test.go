package queries_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindfm/schedule/internal/queries"
	"github.com/rewindfm/schedule/internal/querytest"
)

func Test_ListScheduleWithShows(t *testing.T) {
	db := querytest.PrepareDB(t)
	q := queries.New(db)
	station, morning := seedStationAndShow(t, q)
	evening, err := q.CreateShow(context.Background(), queries.CreateShowParams{
		StationID:   station.Id,
		Title:       "Evening Rewind",
		Description: "Slow jams after dark",
		ImageUrl:    "/media/shows/evening.jpg",
	})
	require.NoError(t, err)

	_, err = q.CreateSlot(context.Background(), queries.CreateSlotParams{
		StationID: station.Id,
		ShowID:    evening.Id,
		DayOfWeek: 1,
		StartMin:  1080,
		EndMin:    1260,
	})
	require.NoError(t, err)
	_, err = q.CreateSlot(context.Background(), queries.CreateSlotParams{
		StationID: station.Id,
		ShowID:    morning.Id,
		DayOfWeek: 1,
		StartMin:  360,
		EndMin:    600,
	})
	require.NoError(t, err)

	items, err := q.ListScheduleWithShows(context.Background(), queries.ListScheduleParams{StationID: station.Id})
	assert.NoError(t, err)
	assert.Len(t, items, 2)

	// Canonical order puts the morning show first, and each slot carries its
	// show's display fields
	require.NotNil(t, items[0].Show)
	assert.Equal(t, "Morning Drive", items[0].Show.Title)
	require.NotNil(t, items[1].Show)
	assert.Equal(t, "Evening Rewind", items[1].Show.Title)
	assert.Equal(t, "Slow jams after dark", items[1].Show.Description)
	assert.Equal(t, "/media/shows/evening.jpg", items[1].Show.ImageUrl)

	// Filtering by day only returns that day's slots
	day := 2
	items, err = q.ListScheduleWithShows(context.Background(), queries.ListScheduleParams{StationID: station.Id, DayOfWeek: &day})
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}

func Test_ListScheduleWithShows_DanglingShow(t *testing.T) {
	db := querytest.PrepareDB(t)
	q := queries.New(db)
	station, show := seedStationAndShow(t, q)

	slot, err := q.CreateSlot(context.Background(), queries.CreateSlotParams{
		StationID: station.Id,
		ShowID:    show.Id,
		DayOfWeek: 5,
		StartMin:  480,
		EndMin:    540,
	})
	require.NoError(t, err)

	// Deletes aren't guaranteed transactional with dependent rows; simulate a
	// show row vanishing out from under its slot
	_, err = db.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM shows WHERE id = ?", show.Id)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	items, err := q.ListScheduleWithShows(context.Background(), queries.ListScheduleParams{StationID: station.Id})
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, slot.Id, items[0].Id)
	assert.Nil(t, items[0].Show)
}

func Test_ListHostsByShows(t *testing.T) {
	db := querytest.PrepareDB(t)
	q := queries.New(db)
	_, show := seedStationAndShow(t, q)

	dj, err := q.CreateHost(context.Background(), queries.CreateHostParams{
		Name:     "Ade Okafor",
		Role:     "Presenter",
		ImageUrl: "/media/hosts/ade.jpg",
	})
	require.NoError(t, err)
	cohost, err := q.CreateHost(context.Background(), queries.CreateHostParams{Name: "Bisi Martins"})
	require.NoError(t, err)
	require.NoError(t, q.AssignHostToShow(context.Background(), dj.Id, show.Id, "Main Host"))
	require.NoError(t, q.AssignHostToShow(context.Background(), cohost.Id, show.Id, ""))

	hostsByShow, err := q.ListHostsByShows(context.Background(), []uuid.UUID{show.Id})
	assert.NoError(t, err)
	require.Len(t, hostsByShow[show.Id], 2)
	assert.Equal(t, "Ade Okafor", hostsByShow[show.Id][0].Name)
	assert.Equal(t, "/media/hosts/ade.jpg", hostsByShow[show.Id][0].AvatarUrl)
	assert.Equal(t, "Bisi Martins", hostsByShow[show.Id][1].Name)

	// No shows requested means an empty (non-nil) result and no query
	hostsByShow, err = q.ListHostsByShows(context.Background(), nil)
	assert.NoError(t, err)
	assert.NotNil(t, hostsByShow)
	assert.Len(t, hostsByShow, 0)
}
