package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docwheel/internal/api"
	"github.com/dgallion1/docwheel/internal/config"
	"github.com/dgallion1/docwheel/internal/store"
	"github.com/dgallion1/docwheel/internal/wheel"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the document store.
	st, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Error("store unavailable", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	stats := store.Instrument(st)

	scanner, err := cfg.Scanner()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize the view.
	view := wheel.New(wheel.Config{
		Store:   stats,
		Scanner: scanner,
		Options: cfg.Options(),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Logger:  log.With("store", cfg.Store),
	})
	if err := view.Open(ctx, cfg.Document); err != nil {
		log.Error("document unavailable", "document", cfg.Document, "error", err)
		os.Exit(1)
	}

	// Initialize HTTP server.
	srv := api.NewServer(view, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docwheel", "port", cfg.Port, "document", cfg.Document, "store", cfg.Store)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
