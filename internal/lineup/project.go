package lineup

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rewindfm/schedule"
)

var dayMeta = [7]struct {
	Key   string
	Label string
}{
	{"sun", "Sunday"},
	{"mon", "Monday"},
	{"tue", "Tuesday"},
	{"wed", "Wednesday"},
	{"thu", "Thursday"},
	{"fri", "Friday"},
	{"sat", "Saturday"},
}

// Project turns raw slot+show rows into the public weekly lineup: seven
// labeled day buckets sorted by start time, partitioned into weekday
// (Mon-Fri) and weekend (Sat-Sun). Slots whose show has been deleted are
// skipped. All seven days are always present, empty or not.
func Project(slots []schedule.SlotWithShow, hostsByShow map[uuid.UUID][]schedule.HostRef) schedule.Lineup {
	var days [7]schedule.LineupDay
	for i, meta := range dayMeta {
		days[i] = schedule.LineupDay{
			Key:   meta.Key,
			Label: meta.Label,
			Shows: []schedule.ShowOccurrence{},
		}
	}

	for _, slot := range slots {
		if slot.Show == nil {
			// Dangling reference; the slot's show is gone
			continue
		}
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			continue
		}
		hosts := hostsByShow[slot.Show.Id]
		if hosts == nil {
			hosts = []schedule.HostRef{}
		}
		days[slot.DayOfWeek].Shows = append(days[slot.DayOfWeek].Shows, schedule.ShowOccurrence{
			Id:          slot.Show.Id,
			Title:       slot.Show.Title,
			Description: slot.Show.Description,
			ImageUrl:    slot.Show.ImageUrl,
			StartMin:    slot.StartMin,
			EndMin:      slot.EndMin,
			Hosts:       hosts,
		})
	}

	for i := range days {
		shows := days[i].Shows
		sort.SliceStable(shows, func(a, b int) bool {
			return shows[a].StartMin < shows[b].StartMin
		})
	}

	return schedule.Lineup{
		Weekday: schedule.LineupSection{
			Days: []schedule.LineupDay{days[1], days[2], days[3], days[4], days[5]},
		},
		Weekend: schedule.LineupSection{
			Days: []schedule.LineupDay{days[6], days[0]},
		},
	}
}

// formatClock renders minutes-since-midnight on a 12-hour clock: 0 is
// "12:00 AM", 720 is "12:00 PM", 1440 wraps back to midnight.
func formatClock(minutes int) string {
	h := (minutes / 60) % 24
	m := minutes % 60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, period)
}
