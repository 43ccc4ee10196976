package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Day-of-week indices follow time.Weekday: 0 is Sunday, 6 is Saturday. Slot
// times are minutes since local midnight, with the end exclusive: a show that
// ends at minute 600 is no longer on air at minute 600.

type Station struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StreamUrl string    `json:"streamUrl"`
	Timezone  string    `json:"timezone"`
}

type Show struct {
	Id          uuid.UUID `json:"id"`
	StationId   uuid.UUID `json:"stationId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"imageUrl"`
}

// Host is an on-air personality; hosts are assigned to shows many-to-many,
// optionally with a per-show label like "Main Host".
type Host struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Bio      string    `json:"bio"`
	ImageUrl string    `json:"imageUrl"`
}

type Slot struct {
	Id        uuid.UUID `json:"id"`
	StationId uuid.UUID `json:"stationId"`
	ShowId    uuid.UUID `json:"showId"`
	DayOfWeek int       `json:"dayOfWeek"`
	StartMin  int       `json:"startMin"`
	EndMin    int       `json:"endMin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShowRef carries the display fields of a slot's show when slots are listed
// joined with show data. A nil ShowRef on a SlotWithShow means the slot's show
// no longer exists; read paths skip such slots rather than failing.
type ShowRef struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"imageUrl"`
}

type SlotWithShow struct {
	Slot
	Show *ShowRef `json:"show"`
}

// SlotRequest is the admin-facing payload for creating a slot. ShowId stays a
// string so that validation can distinguish "absent" from "malformed".
type SlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	ShowId    string `json:"showId"`
	StartMin  int    `json:"startMin"`
	EndMin    int    `json:"endMin"`
}

// SlotPatch is the admin-facing payload for editing a slot; nil fields are
// left unchanged.
type SlotPatch struct {
	DayOfWeek *int    `json:"dayOfWeek"`
	ShowId    *string `json:"showId"`
	StartMin  *int    `json:"startMin"`
	EndMin    *int    `json:"endMin"`
}

type HostRef struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarUrl string    `json:"avatarUrl"`
}

// ShowOccurrence is one airing of a show within a lineup day.
type ShowOccurrence struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"imageUrl"`
	StartMin    int       `json:"startMin"`
	EndMin      int       `json:"endMin"`
	Hosts       []HostRef `json:"hosts"`
}

type LineupDay struct {
	Key   string           `json:"key"`
	Label string           `json:"label"`
	Shows []ShowOccurrence `json:"shows"`
}

type LineupSection struct {
	Days []LineupDay `json:"days"`
}

// Lineup is the public weekly-lineup view: Monday through Friday under
// weekday, Saturday and Sunday under weekend. All seven days are always
// present, with empty show lists when nothing is scheduled.
type Lineup struct {
	Weekday LineupSection `json:"weekday"`
	Weekend LineupSection `json:"weekend"`
}

// NowPlaying is what the persistent player renders. When no show is live (or
// the lookup failed) it carries the station-default title and subtitle with
// HasLiveShow false; it is never an error.
type NowPlaying struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Image       string `json:"image"`
	StreamUrl   string `json:"streamUrl"`
	HasLiveShow bool   `json:"hasLiveShow"`
}
