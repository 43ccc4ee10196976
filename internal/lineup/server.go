package lineup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rewindfm/schedule"
	"github.com/rewindfm/schedule/internal/queries"
)

type Queries interface {
	GetFirstStation(ctx context.Context) (*schedule.Station, error)
	GetStation(ctx context.Context, id uuid.UUID) (*schedule.Station, error)
	ListScheduleWithShows(ctx context.Context, arg queries.ListScheduleParams) ([]schedule.SlotWithShow, error)
	ListHostsByShows(ctx context.Context, showIDs []uuid.UUID) (map[uuid.UUID][]schedule.HostRef, error)
	ListSlotsByShow(ctx context.Context, showID uuid.UUID) ([]schedule.Slot, error)
}

type Server struct {
	q Queries
}

func NewServer(q *queries.Queries) *Server {
	return &Server{
		q: q,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/lineup").Methods("GET").HandlerFunc(s.handleGetLineup)
	r.Path("/schedule").Methods("GET").HandlerFunc(s.handleGetSchedule)
	r.Path("/shows/{id}/schedule").Methods("GET").HandlerFunc(s.handleGetShowSchedule)
}

func (s *Server) handleGetLineup(res http.ResponseWriter, req *http.Request) {
	// The lineup degrades to seven empty days rather than erroring: the home
	// page renders it on every visit and a hiccup here must not take the page
	// down
	lineup := Project(nil, nil)
	if station, err := s.q.GetFirstStation(req.Context()); err == nil && station != nil {
		slots, err := s.q.ListScheduleWithShows(req.Context(), queries.ListScheduleParams{StationID: station.Id})
		if err == nil {
			showIDs := collectShowIDs(slots)
			hostsByShow, err := s.q.ListHostsByShows(req.Context(), showIDs)
			if err != nil {
				hostsByShow = nil
			}
			lineup = Project(slots, hostsByShow)
		}
	}
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(lineup); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleGetSchedule(res http.ResponseWriter, req *http.Request) {
	// Resolve the station: by id when requested explicitly, otherwise the
	// single configured station
	var station *schedule.Station
	if stationIdStr := req.URL.Query().Get("stationId"); stationIdStr != "" {
		stationId, err := uuid.Parse(stationIdStr)
		if err != nil {
			http.Error(res, "station ID must be a valid UUID", http.StatusBadRequest)
			return
		}
		station, err = s.q.GetStation(req.Context(), stationId)
		if err != nil {
			if errors.Is(err, queries.ErrStationNotFound) {
				http.Error(res, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		var err error
		station, err = s.q.GetFirstStation(req.Context())
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	// No station configured means an empty schedule, not an error
	items := []schedule.SlotWithShow{}
	if station != nil {
		arg := queries.ListScheduleParams{StationID: station.Id}
		if dayStr := req.URL.Query().Get("day"); dayStr != "" {
			day, err := strconv.Atoi(dayStr)
			if err != nil || day < 0 || day > 6 {
				http.Error(res, "day must be an integer between 0 and 6", http.StatusBadRequest)
				return
			}
			arg.DayOfWeek = &day
		}
		var err error
		items, err = s.q.ListScheduleWithShows(req.Context(), arg)
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(items); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

// showScheduleItem is one airing on a show detail page, with the day and
// times pre-rendered for display.
type showScheduleItem struct {
	DayOfWeek  int    `json:"dayOfWeek"`
	DayName    string `json:"dayName"`
	StartMin   int    `json:"startMin"`
	EndMin     int    `json:"endMin"`
	StartLabel string `json:"startLabel"`
	EndLabel   string `json:"endLabel"`
}

func (s *Server) handleGetShowSchedule(res http.ResponseWriter, req *http.Request) {
	showIdStr, ok := mux.Vars(req)["id"]
	if !ok || showIdStr == "" {
		http.Error(res, "failed to parse 'id' from URL", http.StatusInternalServerError)
		return
	}
	showId, err := uuid.Parse(showIdStr)
	if err != nil {
		http.Error(res, "show ID must be a valid UUID", http.StatusBadRequest)
		return
	}

	slots, err := s.q.ListSlotsByShow(req.Context(), showId)
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	items := make([]showScheduleItem, 0, len(slots))
	for _, slot := range slots {
		items = append(items, showScheduleItem{
			DayOfWeek:  slot.DayOfWeek,
			DayName:    dayMeta[slot.DayOfWeek].Label,
			StartMin:   slot.StartMin,
			EndMin:     slot.EndMin,
			StartLabel: formatClock(slot.StartMin),
			EndLabel:   formatClock(slot.EndMin),
		})
	}
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]interface{}{"items": items}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func collectShowIDs(slots []schedule.SlotWithShow) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(slots))
	for _, slot := range slots {
		if slot.Show == nil || seen[slot.Show.Id] {
			continue
		}
		seen[slot.Show.Id] = true
		ids = append(ids, slot.Show.Id)
	}
	return ids
}
