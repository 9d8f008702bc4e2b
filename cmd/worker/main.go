package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/app"
	jobmetrics "github.com/lumen-lms/lumen/internal/jobs"
	"github.com/lumen-lms/lumen/internal/shared"
	"github.com/lumen-lms/lumen/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)
	activityLog := shared.NewActivityLogger(pool)

	sweepJob := jobs.NewTokenSweepJob(pool, logger, metrics)
	pruneJob := jobs.NewActivityPruneJob(activityLog, logger, metrics)

	sweepTask, err := jobs.NewTokenSweepTask(jobs.TokenSweepPayload{})
	if err != nil {
		logger.Error("build token sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	pruneTask, err := jobs.NewActivityPruneTask(jobs.ActivityPrunePayload{
		RetentionHours: int(cfg.ActivityRetention.Hours()),
	})
	if err != nil {
		logger.Error("build activity prune task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTokenSweep, Handler: sweepJob.Handle},
			{Type: jobs.TaskActivityPrune, Handler: pruneJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 2 * * *", Task: pruneTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
