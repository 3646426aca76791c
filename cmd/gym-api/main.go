// main is the entry point of the gym API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, then the YAML file, then env overrides)
//  2. Initialise the logger and error reporting
//  3. Build the app: SQLite storage, upstream clients, services, routes
//  4. Serve until an OS signal (Ctrl+C / kill) arrives
//  5. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/gym-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/gym-api
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/gym-api/internal/app"
	"github.com/aanand-mishra/gym-api/internal/config"
	"github.com/aanand-mishra/gym-api/internal/lib/sl"
	"github.com/aanand-mishra/gym-api/internal/observability"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger and Sentry ───────────────────────────────────
	log := setupLogger(cfg.Env)

	log.Info("starting gym-api",
		slog.String("env", cfg.Env),
		slog.String("version", app.Version),
	)

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, app.Version)
	if err != nil {
		// Reporting is optional; the API still works without it.
		log.Warn("sentry disabled", sl.Err(err))
	}
	defer flush()

	// ── 3. Build the App ──────────────────────────────────────────────────
	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("failed to initialise app", sl.Err(err))
		os.Exit(1)
	}

	// ── 4. Serve until SIGINT / SIGTERM ───────────────────────────────────
	// NotifyContext cancels ctx on the first signal; Run then shuts the
	// server down and closes the store.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Error("server stopped with error", sl.Err(err))
		flush()
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
