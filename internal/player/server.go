// Package player resolves what's on air right now for the persistent audio
// player. This sits on the hot path of nearly every page render, so its one
// contract is that it always produces a payload: a scheduling gap or a failed
// lookup yields the station-default placeholder, never an error.
package player

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rewindfm/schedule"
	"github.com/rewindfm/schedule/internal/queries"
)

const fallbackTitle = "Rewind Radio"
const fallbackSubtitle = "Live on Rewind."
const placeholderImage = "/media/placeholder/vinyl-thumb.jpg"

var fallbacksServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "schedule_now_playing_fallbacks_total",
	Help: "Number of now-playing requests answered with the fallback payload, by reason.",
}, []string{"reason"})

type Queries interface {
	GetFirstStation(ctx context.Context) (*schedule.Station, error)
	FindActiveSlot(ctx context.Context, arg queries.FindActiveSlotParams) (*schedule.Slot, error)
	GetShow(ctx context.Context, id uuid.UUID) (*schedule.Show, error)
}

type Server struct {
	q     Queries
	clock Clock

	// streamUrl is the deployment-level default, used until a station with
	// its own stream URL is configured
	streamUrl string
}

func NewServer(q *queries.Queries, clock Clock, streamUrl string) *Server {
	return &Server{
		q:         q,
		clock:     clock,
		streamUrl: streamUrl,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/now-playing").Methods("GET").HandlerFunc(s.handleGetNowPlaying)
}

func (s *Server) handleGetNowPlaying(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(s.Resolve(req.Context())); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

// Resolve determines which show is airing at the current instant, evaluated
// in the station's local timezone. It never fails: any storage error and any
// scheduling gap resolve to the fallback payload.
func (s *Server) Resolve(ctx context.Context) schedule.NowPlaying {
	fallback := schedule.NowPlaying{
		Title:     fallbackTitle,
		Subtitle:  fallbackSubtitle,
		Image:     placeholderImage,
		StreamUrl: s.streamUrl,
	}

	station, err := s.q.GetFirstStation(ctx)
	if err != nil {
		fallbacksServed.WithLabelValues("lookup_failed").Inc()
		return fallback
	}
	if station == nil {
		fallbacksServed.WithLabelValues("no_station").Inc()
		return fallback
	}
	if station.StreamUrl != "" {
		fallback.StreamUrl = station.StreamUrl
	}

	loc, err := time.LoadLocation(station.Timezone)
	if err != nil {
		loc = time.UTC
	}
	now := s.clock.Now().In(loc)
	slot, err := s.q.FindActiveSlot(ctx, queries.FindActiveSlotParams{
		StationID: station.Id,
		DayOfWeek: int(now.Weekday()),
		Minute:    now.Hour()*60 + now.Minute(),
	})
	if err != nil {
		fallbacksServed.WithLabelValues("lookup_failed").Inc()
		return fallback
	}
	if slot == nil {
		fallbacksServed.WithLabelValues("gap").Inc()
		return fallback
	}

	// Tolerate a slot whose show has since been deleted
	show, err := s.q.GetShow(ctx, slot.ShowId)
	if err != nil {
		fallbacksServed.WithLabelValues("lookup_failed").Inc()
		return fallback
	}

	nowPlaying := fallback
	nowPlaying.HasLiveShow = true
	if show.Title != "" {
		nowPlaying.Title = show.Title
	}
	if show.Description != "" {
		nowPlaying.Subtitle = show.Description
	}
	if show.ImageUrl != "" {
		nowPlaying.Image = show.ImageUrl
	}
	return nowPlaying
}
