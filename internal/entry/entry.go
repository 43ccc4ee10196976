// Package entry handles process lifecycle: a root context that's canceled on
// SIGINT/SIGTERM, a process-wide structured logger, and graceful HTTP serving.
package entry

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

type Application struct {
	name string
	log  *slog.Logger
	stop context.CancelFunc
}

// NewApplication initializes logging and signal handling for the named
// service, returning a context that remains live until the process is asked
// to shut down.
func NewApplication(name string) (*Application, context.Context) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("app", name)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	logger.Info("Starting application")
	return &Application{
		name: name,
		log:  logger,
		stop: stop,
	}, ctx
}

func (a *Application) Log() *slog.Logger {
	return a.log
}

func (a *Application) Stop() {
	a.log.Info("Stopping application")
	a.stop()
}

// Fail logs a fatal startup error and exits.
func (a *Application) Fail(message string, args ...any) {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			a.log.Error(message, "error", err)
			os.Exit(1)
		}
	}
	a.log.Error(message, args...)
	os.Exit(1)
}

// RunServer serves the given handler until ctx is canceled, then shuts down
// gracefully, refusing new connections while letting in-flight requests
// finish.
func RunServer(ctx context.Context, logger *slog.Logger, handler http.Handler, bindAddr string, port uint16) {
	addr := fmt.Sprintf("%s:%d", bindAddr, port)
	server := &http.Server{
		Addr:    addr,
		Handler: withRequestLogging(logger, handler),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("HTTP server terminated abnormally", "error", err)
		return
	}
	logger.Info("HTTP server stopped")
}

func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		logger.Info("Handling request", "method", req.Method, "path", req.URL.Path)
		next.ServeHTTP(res, req)
	})
}
