package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"financebot/internal/amqp"
	"financebot/internal/backend"
	"financebot/internal/cli"
	applog "financebot/internal/log"
	"financebot/internal/sheets"
	gsheet "financebot/internal/sheets/google"
	sheetmem "financebot/internal/sheets/memory"
	"financebot/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger("info", applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)
	logger.Info("Starting financebot-worker", applog.FieldOperation, applog.OpStartup)

	if cfg.DataBackend != string(backend.SQLiteBackend) {
		logger.Error("The mirror worker needs the sqlite backend to share the ledger", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	// The worker only reads; it must not publish events of its own.
	readOnly := *cfg
	readOnly.AMQPURL = ""
	ledger := cli.OpenLedger(ctx, logger, &readOnly)
	defer ledger.Cleanup()

	var mirror sheets.Mirror
	if cfg.MirrorEnabled() {
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		mirror = client
	} else {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring into memory only")
		mirror = sheetmem.New()
	}

	w := worker.NewMirrorWorker(ledger.Store, mirror)
	if _, err := w.Resync(ctx); err != nil {
		logger.Error("Startup resync failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.RunScheduled(gctx, cfg.ResyncSchedule) })

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		g.Go(func() error { return client.ConsumeEvents(gctx, w.HandleEvent) })
	} else {
		logger.Info("AMQP disabled, relying on scheduled resync only", "schedule", cfg.ResyncSchedule)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		return
	}
	logger.Info("Worker stopped", applog.FieldOperation, applog.OpShutdown)
}
