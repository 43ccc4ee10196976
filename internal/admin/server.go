package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rewindfm/schedule"
	"github.com/rewindfm/schedule/internal/queries"
	"github.com/rewindfm/schedule/internal/state"
)

type Queries interface {
	GetFirstStation(ctx context.Context) (*schedule.Station, error)
	ListScheduleWithShows(ctx context.Context, arg queries.ListScheduleParams) ([]schedule.SlotWithShow, error)
}

type Server struct {
	q Queries
	w state.Writer
}

func NewServer(q *queries.Queries, w state.Writer) *Server {
	return &Server{
		q: q,
		w: w,
	}
}

// RegisterRoutes mounts the schedule admin API. Authentication is terminated
// upstream of this service; deployments insert their auth middleware on the
// subrouter passed in here.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/schedule").Methods("GET").HandlerFunc(s.handleGetSchedule)
	r.Path("/schedule").Methods("POST").HandlerFunc(s.handleCreateSlot)
	r.Path("/schedule/{id}").Methods("PUT").HandlerFunc(s.handleUpdateSlot)
	r.Path("/schedule/{id}").Methods("DELETE").HandlerFunc(s.handleDeleteSlot)
}

func (s *Server) handleGetSchedule(res http.ResponseWriter, req *http.Request) {
	// With no station configured there's simply nothing scheduled yet
	items := []schedule.SlotWithShow{}
	station, err := s.q.GetFirstStation(req.Context())
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	if station != nil {
		items, err = s.q.ListScheduleWithShows(req.Context(), queries.ListScheduleParams{StationID: station.Id})
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]interface{}{"items": items}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateSlot(res http.ResponseWriter, req *http.Request) {
	var body schedule.SlotRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(res, "invalid request body", http.StatusBadRequest)
		return
	}
	slot, err := s.w.CreateSlot(req.Context(), body)
	if err != nil {
		writeSlotError(res, err)
		return
	}
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]interface{}{"id": slot.Id}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleUpdateSlot(res http.ResponseWriter, req *http.Request) {
	id, ok := parseSlotId(res, req)
	if !ok {
		return
	}
	var body schedule.SlotPatch
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(res, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := s.w.UpdateSlot(req.Context(), id, body); err != nil {
		writeSlotError(res, err)
		return
	}
	res.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSlot(res http.ResponseWriter, req *http.Request) {
	id, ok := parseSlotId(res, req)
	if !ok {
		return
	}
	if err := s.w.DeleteSlot(req.Context(), id); err != nil {
		writeSlotError(res, err)
		return
	}
	res.WriteHeader(http.StatusNoContent)
}

func parseSlotId(res http.ResponseWriter, req *http.Request) (uuid.UUID, bool) {
	idStr, ok := mux.Vars(req)["id"]
	if !ok || idStr == "" {
		http.Error(res, "failed to parse 'id' from URL", http.StatusInternalServerError)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(res, "slot ID must be a valid UUID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeSlotError is the single mapping from schedule write failures to HTTP
// statuses, shared by every admin entry point: validation problems are 400s
// the operator can correct, unknown slots are 404s, anything else is a 500.
func writeSlotError(res http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrBadDay),
		errors.Is(err, state.ErrMissingShow),
		errors.Is(err, state.ErrBadTime),
		errors.Is(err, state.ErrInvertedRange),
		errors.Is(err, state.ErrSlotOverlap),
		errors.Is(err, state.ErrNoStation),
		errors.Is(err, queries.ErrShowNotFound),
		errors.Is(err, queries.ErrForeignKeyMissing):
		http.Error(res, err.Error(), http.StatusBadRequest)
	case errors.Is(err, queries.ErrSlotNotFound):
		http.Error(res, err.Error(), http.StatusNotFound)
	default:
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}
