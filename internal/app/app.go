// Package app assembles the gym API: storage, upstream clients, services
// and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/aanand-mishra/gym-api/internal/clients/viacep"
	workoutclient "github.com/aanand-mishra/gym-api/internal/clients/workout"
	"github.com/aanand-mishra/gym-api/internal/config"
	"github.com/aanand-mishra/gym-api/internal/lib/outbound"
	"github.com/aanand-mishra/gym-api/internal/lib/sl"
	"github.com/aanand-mishra/gym-api/internal/services/gym"
	"github.com/aanand-mishra/gym-api/internal/services/student"
	"github.com/aanand-mishra/gym-api/internal/services/workout"
	"github.com/aanand-mishra/gym-api/internal/storage"
	"github.com/aanand-mishra/gym-api/internal/storage/sqlite"
)

const serviceName = "gym-api"

// Version is overridden at build time with -ldflags "-X ...app.Version=".
var Version = "1.0.0"

// App owns the HTTP server and the store for the lifetime of the process.
type App struct {
	server *http.Server
	log    *slog.Logger
	store  storage.Storage
}

// New opens the store and wires every component. The caller owns the
// returned App and must call Run or Close.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "app.New"

	store, err := sqlite.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	workouts := workoutclient.New(cfg.WorkoutService.BaseURL, cfg.WorkoutService.Timeout,
		outbound.WithRateLimit(cfg.WorkoutService.RateLimit, cfg.WorkoutService.Burst))

	postal := viacep.New(cfg.PostalService.BaseURL, cfg.PostalService.Timeout,
		outbound.WithRateLimit(cfg.PostalService.RateLimit, cfg.PostalService.Burst))

	students := student.New(store, log)

	router := chi.NewRouter()
	RegisterRoutes(router, log, Services{
		Students: students,
		Workouts: workout.New(students, workouts, log),
		Gyms:     gym.New(postal, cfg.GymsDataset),
		DB:       store,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{server: srv, log: log, store: store}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes
// the store.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.log.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.Close()
		return err
	}
}

// Close releases the store.
func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close storage", sl.Err(err))
	}
}
