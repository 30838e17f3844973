package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/inkwell-press/inkwell/internal/app"
	jobmetrics "github.com/inkwell-press/inkwell/internal/jobs"
	"github.com/inkwell-press/inkwell/internal/notifications"
	"github.com/inkwell-press/inkwell/internal/platform/cache"
	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/search"
	"github.com/inkwell-press/inkwell/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)

	notificationsService := notifications.NewService(notifications.NewRepository(pool))
	notifyJob := jobs.NewNotifyJob(notificationsService, logger, metrics)

	searchService := search.NewService(search.NewStore(pool), redisClient, cfg.SearchCacheTTL, logger)
	reindexJob := jobs.NewSearchReindexJob(searchService, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeCommentNotify, Handler: notifyJob.HandleComment},
			{Type: jobs.TaskTypeRoleChangeNotify, Handler: notifyJob.HandleRoleChange},
			{Type: jobs.TaskTypeSearchReindex, Handler: reindexJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewSearchReindexTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
