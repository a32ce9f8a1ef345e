package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"financebot/internal/cache"
	"financebot/internal/cli"
	"financebot/internal/dates"
	apphttp "financebot/internal/http"
	"financebot/internal/intent"
	applog "financebot/internal/log"
	"financebot/internal/report"
)

const (
	maxSessions   = 1024
	sweepInterval = time.Minute
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger("info", applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)
	logger.Info("Starting financebot", applog.FieldOperation, applog.OpStartup, "backend", cfg.DataBackend)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	ledger := cli.OpenLedger(ctx, logger, cfg)
	defer func() {
		if err := ledger.Cleanup(); err != nil {
			logger.Error("Failed to close ledger", applog.FieldError, err)
		}
	}()

	resolver := dates.NewResolver(
		dates.WithLocation(cfg.Location()),
		dates.WithFuzzyParser(dates.NewDateParser()),
	)

	var generator report.Generator = report.Plain{}
	if cfg.OpenAIAPIKey != "" {
		generator = report.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		logger.Info("Report generation uses OpenAI", "model", cfg.OpenAIModel)
	}
	reports := report.NewCached(generator, cache.NewLRUCache[string](cfg.ReportCacheSize, cfg.ReportCacheTTL))

	sessions := apphttp.NewSessionRegistry(maxSessions, cfg.SessionTTL)
	srv := apphttp.New(apphttp.Config{
		Addr:     ":" + cfg.Port,
		Store:    ledger.Store,
		Executor: intent.NewExecutor(ledger.Store, resolver, reports),
		Dates:    resolver,
		Sessions: sessions,
		Logger:   logger,
	})

	janitor := cache.NewJanitor()
	janitor.Register("reports", reports.Cache())
	janitor.Register("sessions", sessions)
	janitor.Register("rate_limit", srv.RateLimiter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return janitor.Run(gctx, sweepInterval) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped with error", applog.FieldError, err)
		return
	}
	logger.Info("Server stopped", applog.FieldOperation, applog.OpShutdown)
}
