package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"titledoctor/internal/app"
	"titledoctor/internal/config"
	"titledoctor/internal/logger"
)

func main() {
	log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, log); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.DB.Close()

	a, err := app.New(ctx, cfg, deps.DB, deps.Bus, log)
	if err != nil {
		return err
	}

	// The NSQ bus owns consumer connections; drain them on the way out.
	if stoppable, ok := deps.Bus.(interface{ Stop() }); ok {
		defer stoppable.Stop()
	}

	slog.Info("pipeline ready", "bus_mode", cfg.BusMode)
	return a.Run(ctx)
}
