package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cashbook/internal/amqp"
	"cashbook/internal/cli"
	"cashbook/internal/config"
	"cashbook/internal/log"
	"cashbook/internal/services"
	"cashbook/internal/worker"
)

const healthInterval = time.Minute

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger(nil, os.Stdout).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stdout).WithComponent(log.ComponentWorker)

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	if !cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is required for the export worker")
	}

	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	logger.Info("Starting cashbook-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue, "export_backend", cfg.ExportBackend)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	processor := services.NewExportProcessor(app.Service, time.Local, logger)
	exportWorker := worker.NewExportWorker(client, processor, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return exportWorker.Run(gctx) })
	g.Go(func() error {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := app.Backend.Ping(gctx); err != nil {
					logger.Warn("Store health check failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Worker stopped gracefully")
	return nil
}
