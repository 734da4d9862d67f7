package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edgewatch/edgewatch/internal/alert"
	"github.com/edgewatch/edgewatch/internal/api"
	"github.com/edgewatch/edgewatch/internal/config"
	"github.com/edgewatch/edgewatch/internal/logsource"
	"github.com/edgewatch/edgewatch/internal/metrics"
	"github.com/edgewatch/edgewatch/internal/notify"
	"github.com/edgewatch/edgewatch/internal/pipeline"
	"github.com/edgewatch/edgewatch/internal/store"
	"github.com/edgewatch/edgewatch/internal/ws"
)

// historySize bounds the in-memory alert history.
const historySize = 500

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Secrets come from the environment; a local .env is a convenience for
	// development and absent in production.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	slog.Info("edgewatch starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"source_endpoint", cfg.Source.Endpoint,
		"project_ref", cfg.Source.ProjectRef,
		"recipients", len(cfg.Email.Recipients),
		"check_interval", cfg.Alerting.CheckInterval,
		"strict_delivery", cfg.Alerting.StrictDelivery,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The alerting policy is swappable at runtime via config hot-reload;
	// everything else (endpoints, credentials, port) needs a restart.
	var settings atomic.Pointer[pipeline.Settings]
	settings.Store(settingsFrom(cfg))

	history := store.New(historySize)
	reg := metrics.New()
	hub := ws.New(history)
	go hub.Run(ctx)

	runner := pipeline.NewRunner(
		logsource.New(cfg.Source),
		notify.New(cfg.Email),
		pipeline.NewTracker(cfg.Alerting.CheckInterval),
		func() pipeline.Settings { return *settings.Load() },
	)
	runner.History = history
	runner.Stream = hub
	runner.Metrics = reg

	// Watch config file for hot-reload of the alerting policy; endpoint and
	// credential edits are held until restart.
	go func() {
		if err := config.Watch(ctx, *configPath, cfg, func(updated *config.Config) {
			settings.Store(settingsFrom(updated))
			slog.Info("alerting policy hot-reloaded",
				"origin_allow_list", len(updated.Alerting.OriginAllowList),
				"strict_delivery", updated.Alerting.StrictDelivery,
			)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(runner, history))
	mux.Handle("/metrics", reg)
	mux.Handle("/ws/alerts", hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("edgewatch shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx) //nolint:errcheck
}

// settingsFrom derives the per-check pipeline settings from a loaded config.
func settingsFrom(cfg *config.Config) *pipeline.Settings {
	return &pipeline.Settings{
		Filter:         alert.NewPolicy(cfg.Alerting.OriginAllowList),
		StrictDelivery: cfg.Alerting.StrictDelivery,
	}
}
