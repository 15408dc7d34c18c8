package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"zenfin/internal/amqp"
	"zenfin/internal/cli"
	"zenfin/internal/config"
	apphttp "zenfin/internal/http"
	"zenfin/internal/insights"
	"zenfin/internal/ledger"
	"zenfin/internal/remote"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if cfg.SeedSampleData {
		if err := repo.SeedIfEmpty(ctx); err != nil {
			logger.Warn("Failed to seed sample entries", "error", err)
		}
	}

	// Change publisher is optional; without AMQP mutations stay local until
	// a manual sync.
	var publisher ledger.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP change feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	syncer := buildSyncer(ctx, logger, cfg)

	service := ledger.NewService(repo, publisher)

	var coordinator *ledger.Coordinator
	if syncer != nil {
		coordinator = ledger.NewCoordinator(repo, syncer, cfg.SyncTimeout)
	}

	// The insights endpoint stays off without an API key.
	var advisor apphttp.InsightProvider
	if cfg.GeminiAPIKey != "" {
		gen, err := insights.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini generator", "error", err)
		} else {
			advisor = insights.NewAdvisor(service, gen, logger)
			logger.Info("Monthly insights enabled", "model", cfg.GeminiModel)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, service, repo, coordinator, advisor)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting zenfin server", "port", cfg.Port, "sync_target", cfg.SyncTarget)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		return
	}
	logger.Info("Server stopped gracefully")
}

// buildSyncer wires the configured remote target. A failed target is
// reported and dropped: the app still works locally.
func buildSyncer(ctx context.Context, logger *slog.Logger, cfg *config.Config) ledger.RemoteSyncer {
	switch cfg.SyncTarget {
	case config.SyncTargetPostgres:
		pg, err := remote.NewPostgresSyncer(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres sync target", "error", err)
			return nil
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to ensure remote schema", "error", err)
			pg.Close()
			return nil
		}
		logger.Info("Postgres sync target initialized")
		return pg
	case config.SyncTargetSheets:
		sheets, err := remote.NewSheetsSyncerFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Sheets sync target", "error", err)
			return nil
		}
		logger.Info("Sheets sync target initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return sheets
	default:
		logger.Info("No remote sync target configured")
		return nil
	}
}
