package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"finai/internal/platform/config"
	"finai/internal/platform/httpserver"
	"finai/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("finai stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.UsesDevSigningKey() {
		log.Warn("admin JWT signing key is the development default; set ADMIN_JWT_SIGNING_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := buildApp(ctx, cfg, deps, log)
	if err != nil {
		return err
	}
	// Close drains buffered audit events, so it runs after the server stops.
	defer svc.publisher.Close()

	srv := httpserver.New(cfg.Server, newRouter(cfg, svc, deps, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting finai", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down finai")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
