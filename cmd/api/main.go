// Package main is the entry point for the FlyRide photo journal API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/flyride/journal/internal/config"
	"github.com/flyride/journal/internal/handler"
	"github.com/flyride/journal/internal/media"
	"github.com/flyride/journal/internal/middleware"
	"github.com/flyride/journal/internal/repo"
	"github.com/flyride/journal/internal/service"
	"github.com/flyride/journal/internal/worker"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStorage(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.close()
	slog.Info("storage ready", "backend", cfg.StoreBackend, "data_dir", cfg.DataDir)

	// --- Services ---------------------------------------------------------
	trips := service.NewTripService(store.trips)
	photos := media.NewLocalStore(cfg.DataDir)
	journal := service.NewJournalService(
		repo.NewPhotoRepo(store.kv),
		repo.NewAlbumRepo(store.kv),
		photos,
		trips,
		cfg.Location,
		logger,
	)

	sweeper := worker.NewSweeper(journal, photos, cfg.SweepInterval, cfg.SweepGrace, logger)
	if err := sweeper.Start(); err != nil {
		slog.Error("failed to schedule orphan sweep", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → SlogLogger → Recoverer → CORS → MaxBodySize.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))

	srv := handler.NewServer(journal, trips, photos, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Uploads of up to MAX_UPLOAD_BYTES need more than the usual 10s.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}
