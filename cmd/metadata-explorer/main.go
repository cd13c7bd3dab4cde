package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/victorlin/metadata-explorer/internal/amqp"
	"github.com/victorlin/metadata-explorer/internal/cli"
	"github.com/victorlin/metadata-explorer/internal/explorer"
	apphttp "github.com/victorlin/metadata-explorer/internal/http"
	"github.com/victorlin/metadata-explorer/internal/log"
	"github.com/victorlin/metadata-explorer/internal/source"
	"github.com/victorlin/metadata-explorer/internal/source/google"
	"github.com/victorlin/metadata-explorer/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Google Sheets is optional. Without credentials the sheets:// form is
	// rejected at resolve time.
	var sheetsClient *google.Client
	if cfg.GoogleServiceAccountJSON != "" || cfg.GoogleServiceAccountFile != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		var err error
		sheetsClient, err = google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets source enabled")
	}

	resolver := source.NewResolver(cfg.FetchTimeout, sheetsClient)
	loader := explorer.NewLoader(cfg.CacheMaxEntries, cfg.CacheTTL)

	// Load history: published to the queue when AMQP is configured,
	// written directly otherwise. An empty SQLITE_DB_PATH turns history off.
	var recorder explorer.Recorder
	var history apphttp.HistoryReader
	if cfg.SQLiteDBPath != "" {
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		defer repo.Close()
		recorder = repo
		history = repo
	} else {
		logger.Info("Load history disabled")
	}

	var publisher explorer.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Publishing load events to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := explorer.NewService(loader, cfg.CategoryLimit, cfg.LoadTimeout, recorder, publisher)

	// Periodic cache sweep drops expired datasets between refreshes.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := loader.Sweep(); n > 0 {
					logger.Info("Dataset cache sweep", "removed", n)
				}
			}
		}
	}()

	// Periodic preset refresh keeps popular datasets warm in the cache.
	prefetcher := worker.NewPrefetcher(loader, resolver, source.Presets, cfg.PrefetchInterval, cfg.PrefetchConcurrency)
	go func() {
		if cfg.PrefetchInterval > 0 {
			prefetcher.RefreshNow(ctx)
		}
		if err := prefetcher.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Prefetch worker stopped", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, resolver, history, cfg.HistoryLimit, cfg.MaxUploadBytes, cfg.LoadRateLimit)

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting metadata explorer", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
