package main

import (
	"context"
	"os"
	"time"

	"github.com/victorlin/metadata-explorer/internal/amqp"
	"github.com/victorlin/metadata-explorer/internal/cli"
	"github.com/victorlin/metadata-explorer/internal/log"
	"github.com/victorlin/metadata-explorer/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting explorer-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	// The worker exists to persist load events, so history cannot be off.
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH is required for the worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		amqpClient.Close()
	})

	historyWorker := worker.NewHistoryWorker(repo)

	go func() {
		if err := historyWorker.Run(ctx, amqpClient); err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
