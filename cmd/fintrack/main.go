package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(slog.Default())
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)

	if !core.IsKnownCurrency(cfg.Currency) {
		logger.Warn("Unknown currency, amounts render with the default symbol",
			"currency", cfg.Currency,
			"symbol", core.CurrencySymbol(cfg.Currency))
	}

	res := cli.InitBackend(context.Background(), logger.Logger, cfg)
	svcs := cli.NewServices(cfg, res)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		SnapshotCacheSize: cfg.SnapshotCacheSize,
		SnapshotCacheTTL:  cfg.SnapshotCacheTTL,
		RequestsPerMinute: cfg.RateLimitPerMinute,
	}, apphttp.Deps{
		Store:        res.Store,
		Notifier:     svcs.Notifier,
		Dashboard:    svcs.Dashboard,
		Goals:        svcs.Goals,
		Transactions: svcs.Transactions,
		Categories:   svcs.Categories,
		Profiles:     svcs.Profiles,
		Backups:      svcs.Backups,
		Logger:       logger,
	})

	cacheManager := cache.NewManager()
	for _, c := range srv.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(time.Minute)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp_enabled", cfg.AMQPEnabled(),
		"timezone", cfg.Timezone)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
