package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finviz/internal/amqp"
	"finviz/internal/config"
	gexport "finviz/internal/export/google"
	applog "finviz/internal/log"
	"finviz/internal/storage"
	"finviz/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting finviz-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Google Sheets export is optional
	var exporter worker.AlertExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gexport.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleAlertsSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		exporter = sheetsClient
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleAlertsSheet)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// AMQP is optional: without it the worker runs on its sweep alone
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - recomputing on sweep interval only")
	}

	alertWorker := worker.NewAlertWorker(repo, exporter, worker.AlertWorkerConfig{
		SweepInterval: cfg.SweepInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := alertWorker.Start(ctx); err != nil {
		logger.Error("Failed to start alert worker", applog.FieldError, err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeLedgerEvents(gctx, func(msg *amqp.LedgerEventMessage) error {
				return alertWorker.HandleLedgerEvent(gctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", applog.FieldError, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := alertWorker.Stop(shutdownCtx); err != nil {
		logger.Warn("Alert worker did not stop cleanly", applog.FieldError, err)
	}

	logger.Info("Worker shutdown complete")
}
