package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"zenfin/internal/amqp"
	"zenfin/internal/cli"
	"zenfin/internal/config"
	"zenfin/internal/remote"
	"zenfin/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting sync-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}
	if cfg.SyncTarget == config.SyncTargetNone {
		logger.Error("SYNC_TARGET is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	writer, deleter := buildRemote(ctx, logger, cfg)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, writer, deleter)

	// Recover from missed messages or downtime before consuming.
	if err := syncWorker.Resync(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEntrySync(gctx, syncWorker.HandleMessage)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// buildRemote wires the configured sync target. The Sheets target rewrites
// the full collection on upsert, so it has no id-based deleter.
func buildRemote(ctx context.Context, logger *slog.Logger, cfg *config.Config) (worker.RemoteWriter, worker.RemoteDeleter) {
	switch cfg.SyncTarget {
	case config.SyncTargetPostgres:
		pg, err := remote.NewPostgresSyncer(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres sync target", "error", err)
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to ensure remote schema", "error", err)
			os.Exit(1)
		}
		if existing, err := pg.Load(ctx); err != nil {
			logger.Warn("Failed to read remote collection", "error", err)
		} else {
			logger.Info("Postgres sync target initialized", "remote_entries", len(existing))
		}
		return pg, pg
	case config.SyncTargetSheets:
		sheets, err := remote.NewSheetsSyncerFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Sheets sync target", "error", err)
			os.Exit(1)
		}
		logger.Info("Sheets sync target initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return sheets, nil
	default:
		logger.Error("Unknown sync target", "target", cfg.SyncTarget)
		os.Exit(1)
		return nil, nil
	}
}
