package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgeteer/internal/cli"
	applog "budgeteer/internal/log"
	"budgeteer/internal/services"
	"budgeteer/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting budgeteer-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	feed := cli.InitFeed(logger, cfg)

	st, cleanupStore := cli.InitStore(context.Background(), logger, cfg)
	defer func() {
		if err := cleanupStore(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}
	assistantClient := cli.InitAssistant(logger, cfg)

	var generator services.Generator
	if assistantClient != nil {
		generator = assistantClient
	}
	refreshWorker := worker.NewRefreshWorker(feed, st, generator)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			if err := amqpClient.ConsumeRefresh(gctx, refreshWorker.HandleRefresh); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Info("Skipping AMQP consumption - no client available")
	}

	// Periodic recompute catches edits whose refresh message was lost.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := refreshWorker.RecomputeCurrent(gctx); err != nil {
					logger.Error("Periodic refresh failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
