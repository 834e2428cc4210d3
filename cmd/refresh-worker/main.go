package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	users := flag.String("users", "", "comma-separated user ids to refresh on startup")
	flag.Parse()

	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(slog.Default())
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the refresh worker")
		os.Exit(1)
	}

	res := cli.InitBackend(context.Background(), logger.Logger, cfg)
	svcs := cli.NewServices(cfg, res)
	w := worker.NewRefreshWorker(svcs.Dashboard, res.Store)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(context.Context) {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	if ids := splitUsers(*users); len(ids) > 0 {
		logger.Info("Performing startup refresh", "users", len(ids))
		if err := w.RefreshAll(ctx, ids); err != nil {
			logger.Error("Startup refresh failed", "error", err)
		}
	}

	logger.Info("Starting refresh worker",
		"backend", cfg.DataBackend,
		"queue", cfg.AMQPQueue,
		"concurrency", cfg.WorkerConcurrency)

	err := res.AMQP.ConsumeLedgerChanges(ctx, cfg.WorkerConcurrency, w.HandleChange)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Refresh worker stopped gracefully")
}

func splitUsers(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
