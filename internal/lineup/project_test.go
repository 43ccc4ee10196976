package lineup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rewindfm/schedule"
)

func Test_Project(t *testing.T) {
	morningId := uuid.MustParse("bc5c85f6-fe55-4169-ae06-4b390ac13e80")
	lateId := uuid.MustParse("0a1e9d0e-6f56-4a44-a4e1-fce213ba129c")
	brunchId := uuid.MustParse("8f9a0e3f-5ab8-4f0e-8a98-6d8f2e6b6d4e")
	hostId := uuid.MustParse("6c2c94e3-db0c-4367-8ce7-e86f98ac03d0")

	slots := []schedule.SlotWithShow{
		// Deliberately out of order: the late show comes first
		{
			Slot: schedule.Slot{DayOfWeek: 1, StartMin: 1320, EndMin: 1440},
			Show: &schedule.ShowRef{Id: lateId, Title: "Night Owls"},
		},
		{
			Slot: schedule.Slot{DayOfWeek: 1, StartMin: 360, EndMin: 600},
			Show: &schedule.ShowRef{Id: morningId, Title: "Morning Drive"},
		},
		{
			Slot: schedule.Slot{DayOfWeek: 0, StartMin: 600, EndMin: 720},
			Show: &schedule.ShowRef{Id: brunchId, Title: "Sunday Brunch"},
		},
		// Dangling show reference; must be dropped, not rendered
		{
			Slot: schedule.Slot{DayOfWeek: 3, StartMin: 480, EndMin: 540},
			Show: nil,
		},
	}
	hostsByShow := map[uuid.UUID][]schedule.HostRef{
		morningId: {{Id: hostId, Name: "Dana Reyes"}},
	}

	lineup := Project(slots, hostsByShow)

	// Seven days, always, regardless of what's scheduled
	assert.Len(t, lineup.Weekday.Days, 5)
	assert.Len(t, lineup.Weekend.Days, 2)
	assert.Equal(t, "mon", lineup.Weekday.Days[0].Key)
	assert.Equal(t, "Friday", lineup.Weekday.Days[4].Label)
	assert.Equal(t, "sat", lineup.Weekend.Days[0].Key)
	assert.Equal(t, "sun", lineup.Weekend.Days[1].Key)

	monday := lineup.Weekday.Days[0]
	assert.Len(t, monday.Shows, 2)
	assert.Equal(t, "Morning Drive", monday.Shows[0].Title)
	assert.Equal(t, 360, monday.Shows[0].StartMin)
	assert.Equal(t, []schedule.HostRef{{Id: hostId, Name: "Dana Reyes"}}, monday.Shows[0].Hosts)
	assert.Equal(t, "Night Owls", monday.Shows[1].Title)

	// The late show has no host assignments; it still gets an empty slice so
	// the JSON renders [] rather than null
	assert.NotNil(t, monday.Shows[1].Hosts)
	assert.Len(t, monday.Shows[1].Hosts, 0)

	sunday := lineup.Weekend.Days[1]
	assert.Len(t, sunday.Shows, 1)
	assert.Equal(t, "Sunday Brunch", sunday.Shows[0].Title)

	// Wednesday held only the dangling slot
	assert.Len(t, lineup.Weekday.Days[2].Shows, 0)
}

func Test_Project_Empty(t *testing.T) {
	lineup := Project(nil, nil)
	assert.Len(t, lineup.Weekday.Days, 5)
	assert.Len(t, lineup.Weekend.Days, 2)
	for _, day := range append(lineup.Weekday.Days, lineup.Weekend.Days...) {
		assert.NotNil(t, day.Shows)
		assert.Len(t, day.Shows, 0)
	}
}

func Test_formatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "12:00 AM"},
		{1, "12:01 AM"},
		{360, "6:00 AM"},
		{719, "11:59 AM"},
		{720, "12:00 PM"},
		{721, "12:01 PM"},
		{780, "1:00 PM"},
		{1439, "11:59 PM"},
		{1440, "12:00 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatClock(tt.minutes))
		})
	}
}
