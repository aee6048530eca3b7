package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"pennyverse/internal/shared/config"
	"pennyverse/internal/shared/logger"
	"pennyverse/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		logger.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warnf("Telemetry shutdown: %v", err)
			}
		}()
		logger.Infof("Telemetry enabled, metrics on :%s", cfg.Telemetry.MetricsPort)
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.LedgerListener != nil {
		deps.LedgerListener.Start(ctx)
	}

	if deps.Scheduler != nil {
		deps.Scheduler.Start()
	} else {
		logger.Info("Scheduler is disabled")
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	<-ctx.Done()
	stop()

	GracefulShutdown(srv, redirectSrv, deps.Scheduler, deps.LedgerListener, 30*time.Second)
	return nil
}
