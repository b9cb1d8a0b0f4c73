package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"geoclock/internal/platform/config"
	"geoclock/internal/platform/httpserver"
	"geoclock/internal/platform/logger"
)

const drainTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("GEOCLOCK_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "geoclock: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.Logging.Level)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close(log)

	srv := httpserver.New(cfg.Server.Addr, app.router, cfg.Server.ReadHeaderTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting geoclock",
			"addr", cfg.Server.Addr,
			"session_backend", cfg.Attendance.SessionBackend,
			"warehouse_backend", cfg.Attendance.WarehouseBackend,
			"geocoder_enabled", cfg.GeocoderEnabled(),
		)
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("shutdown signal received, draining")
	return nil
}
