package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Urbanera/Quotation-sub001/internal/app"
	"github.com/Urbanera/Quotation-sub001/internal/catalog"
	"github.com/Urbanera/Quotation-sub001/internal/conversion"
	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/documents"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/observability"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/payments"
	"github.com/Urbanera/Quotation-sub001/internal/platform/cache"
	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
	"github.com/Urbanera/Quotation-sub001/internal/settings"
	"github.com/Urbanera/Quotation-sub001/internal/stats"
	"github.com/Urbanera/Quotation-sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

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
	customersHandler := customers.NewHandler(logger, customersService)

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService)

	quotationRepo := quotations.NewRepository(pool)
	notifier := jobs.NewQuotationNotifier(jobsClient, customerRepo)
	quotationsService := quotations.NewService(quotationRepo, customerRepo, settingsService, notifier, logger)
	quotationsHandler := quotations.NewHandler(logger, quotationsService)

	conversionService := conversion.NewService(conversion.NewRepository(pool), logger)
	conversionHandler := conversion.NewHandler(logger, conversionService)

	ordersService := orders.NewService(orders.NewRepository(pool))
	ordersHandler := orders.NewHandler(logger, ordersService)

	invoiceRepo := invoices.NewRepository(pool)
	invoicesService := invoices.NewService(invoiceRepo)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	paymentRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentRepo, customerRepo, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	catalogHandler := catalog.NewHandler(logger, catalogService)

	pdfClient := documents.NewPDFClient(cfg.GotenbergURL)
	documentsService := documents.NewService(quotationRepo, invoiceRepo, paymentRepo, customerRepo, settingsRepo, pdfClient)
	documentsHandler := documents.NewHandler(logger, documentsService)

	statsCache := stats.NewCache(redisClient, cfg.StatsCacheTTL)
	statsService := stats.NewService(stats.NewRepository(pool), statsCache)
	statsHandler := stats.NewHandler(logger, statsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CustomersHandler:  customersHandler,
		QuotationsHandler: quotationsHandler,
		ConversionHandler: conversionHandler,
		OrdersHandler:     ordersHandler,
		InvoicesHandler:   invoicesHandler,
		PaymentsHandler:   paymentsHandler,
		CatalogHandler:    catalogHandler,
		SettingsHandler:   settingsHandler,
		DocumentsHandler:  documentsHandler,
		StatsHandler:      statsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
