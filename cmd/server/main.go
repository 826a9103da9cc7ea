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

	"github.com/Muhammad-div/ghanabuild/internal/config"
	"github.com/Muhammad-div/ghanabuild/internal/logging"
	"github.com/Muhammad-div/ghanabuild/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := store.FromConfig(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to load rate catalog", "source", cfg.CatalogSource, "error", err)
	}
	slog.Info("rate catalog loaded",
		"source", cfg.CatalogSource,
		"version", cat.Version,
		"regions", len(cat.RegionList()),
	)

	srv := &server{catalog: cat, logger: slog.Default()}
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server stopped", "error", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Fatal("graceful shutdown failed", "error", err)
		}
	}
}
