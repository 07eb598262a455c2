package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/Urbanera/Quotation-sub001/internal/app"
	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
	"github.com/Urbanera/Quotation-sub001/internal/settings"
	"github.com/Urbanera/Quotation-sub001/jobs"
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	customerRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customerRepo)

	settingsService := settings.NewService(settings.NewRepository(pool))

	quotationRepo := quotations.NewRepository(pool)
	notifier := jobs.NewQuotationNotifier(jobsClient, customerRepo)
	quotationsService := quotations.NewService(quotationRepo, customerRepo, settingsService, notifier, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.NewSendEmailHandler(logger)},
			{Type: jobs.TaskTypeQuotationExpire, Handler: jobs.NewQuotationExpireHandler(quotationsService, logger)},
			{Type: jobs.TaskTypeFollowUpRemind, Handler: jobs.NewFollowUpRemindHandler(customersService, customerRepo, jobsClient, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: jobs.NewQuotationExpireTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 9 * * *", Task: jobs.NewFollowUpRemindTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
