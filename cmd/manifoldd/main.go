package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazylynx/gmanifold/internal/cache"
	"github.com/lazylynx/gmanifold/internal/config"
	"github.com/lazylynx/gmanifold/internal/logging"
	"github.com/lazylynx/gmanifold/internal/server"
)

func main() {
	cfg, err := config.Load("manifoldd")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Cache
	var mc cache.MeshCache
	if cfg.Cache.Enabled {
		vc, err := cache.New(cfg.Cache.Addr, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
		} else {
			defer vc.Close()
			mc = vc
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.New(cfg, mc, logger).Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("manifold server starting", "addr", srv.Addr,
			"ellipsoid", cfg.Manifold.Ellipsoid, "cache", mc != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	// Give in-flight builds up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
