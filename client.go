package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"

	"github.com/rewindfm/schedule/internal/rmq"
)

// Client is a simple interface that keeps track of the currently-airing show
// at all times
type Client interface {
	GetNowPlaying() NowPlaying
}

// NewClient initializes a schedule.Client that will keep track of what's on
// air station-wide: the client makes an initial HTTP request to the schedule
// service, and thereafter it consumes from the 'schedule-events' queue in
// order to re-resolve now-playing whenever the weekly schedule changes.
// Calling GetNowPlaying() on the resulting client (thread-safe) will return
// the current now-playing payload at any time.
func NewClient(ctx context.Context, logger *slog.Logger, scheduleUrl string, amqpConn *amqp.Connection) (Client, error) {
	// Resolve what's airing right now as a starting point, so that we're fully
	// initialized without having to wait on events to arrive
	nowPlaying, err := resolveNowPlaying(ctx, scheduleUrl)
	if err != nil {
		return nil, err
	}

	// Prepare a client struct that encapsulates our current state
	c := &client{
		scheduleUrl: scheduleUrl,
		nowPlaying:  *nowPlaying,
	}

	// Initialize a consumer so that whenever the schedule changes, we'll be
	// notified
	scheduleEventsConsumer, err := rmq.NewConsumer(amqpConn, "schedule-events")
	if err != nil {
		return nil, fmt.Errorf("Failed to initialize AMQP consumer for schedule-events: %w", err)
	}
	scheduleEvents, err := scheduleEventsConsumer.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("Failed to init recv channel on schedule-events consumer: %w", err)
	}

	// Run a goroutine that will refresh our now-playing state any time we
	// consume an event from the schedule-events queue
	go func() {
		done := false
		for !done {
			select {
			case <-ctx.Done():
				logger.Info("Consumer context canceled; schedule client shutting down")
				done = true
			case d, ok := <-scheduleEvents:
				if ok {
					var ev Event
					if err := json.Unmarshal(d.Body, &ev); err != nil {
						logger.Error("Failed to unmarshal event from schedule-events; schedule client shutting down", "error", err)
						done = true
						break
					}
					c.handleEvent(ctx, &ev, logger)
				} else {
					logger.Info("Channel is closed; schedule client shutting down")
					done = true
				}
			}
		}
	}()

	return c, nil
}

// resolveNowPlaying makes a request to the schedule service in order to
// resolve the show that's currently on air
func resolveNowPlaying(ctx context.Context, scheduleUrl string) (*NowPlaying, error) {
	url := scheduleUrl + "/now-playing"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Make the request, and ensure that we got a valid response: the
	// now-playing endpoint serves a fallback payload with 200 even when the
	// station has nothing scheduled
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("got response %d from %s", res.StatusCode, url)
	}
	var nowPlaying NowPlaying
	if err := json.NewDecoder(res.Body).Decode(&nowPlaying); err != nil {
		return nil, fmt.Errorf("failed to decode response body from %s: %w", url, err)
	}
	return &nowPlaying, nil
}

type client struct {
	scheduleUrl string
	nowPlaying  NowPlaying
	mu          sync.RWMutex
}

func (c *client) GetNowPlaying() NowPlaying {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nowPlaying
}

func (c *client) handleEvent(ctx context.Context, ev *Event, logger *slog.Logger) {
	// Any slot change can alter what's on air, so re-resolve over HTTP; if the
	// request fails we keep serving the last known payload
	nowPlaying, err := resolveNowPlaying(ctx, c.scheduleUrl)
	if err != nil {
		logger.Error("Failed to re-resolve now-playing after schedule event", "scheduleEvent", ev, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.nowPlaying
	c.nowPlaying = *nowPlaying
	logger.Info("Now-playing state changed", "scheduleEvent", ev, "prevState", prev, "newState", c.nowPlaying)
}
