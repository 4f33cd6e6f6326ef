package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/config"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/kafka"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/lock"
	pgRepo "github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/postgres"
	grpcPresentation "github.com/loanspur/loanspur-nexus-finance-sub006/internal/presentation/grpc"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/presentation/rest"
	pkgkafka "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/observability"
	pkgpostgres "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("loan engine exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := observability.InitLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting loan engine",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// --- Observability ------------------------------------------------------
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Trace)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	// --- Database -----------------------------------------------------------
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(cfg.DB.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return err
	}

	// --- Infrastructure adapters -------------------------------------------
	locker, closeLocker, err := lock.New(ctx, cfg.Redis, cfg.LockTTL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeLocker() }()

	transactor := pgRepo.NewTransactor(pool)
	engine := service.NewEngine()

	metrics, err := usecase.NewHarmonizationMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		return err
	}

	producer, err := pkgkafka.NewProducer(cfg.Kafka.Config)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	// --- Use cases ----------------------------------------------------------
	harmonizeUC := usecase.NewHarmonizeLoanUseCase(transactor, locker, engine, metrics, logger)
	portfolioUC := usecase.NewHarmonizePortfolioUseCase(transactor, harmonizeUC, logger)
	statusUC := usecase.NewGetLoanStatusUseCase(transactor, engine)
	previewUC := usecase.NewPreviewScheduleUseCase(engine)

	// --- Background workers -------------------------------------------------
	errCh := make(chan error, 4)

	relay := kafka.NewOutboxRelay(pgRepo.NewOutboxRepo(pool), producer, cfg.Kafka.EventsTopic,
		cfg.OutboxPollInterval, cfg.OutboxBatchSize, logger)
	go func() {
		if err := relay.Run(ctx); err != nil {
			errCh <- fmt.Errorf("outbox relay: %w", err)
		}
	}()

	if cfg.ConsumePayments {
		consumer, err := kafka.NewPaymentConsumer(cfg.Kafka.Config, cfg.Kafka.PaymentsTopic,
			kafka.NewPaymentHandler(harmonizeUC, logger), logger)
		if err != nil {
			return fmt.Errorf("payment consumer: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("payment consumer: %w", err)
			}
		}()
	}

	// --- Servers ------------------------------------------------------------
	handler := grpcPresentation.NewLoanEngineHandler(harmonizeUC, portfolioUC, statusUC, previewUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, grpcPresentation.ServerOptions{
		ServiceName: cfg.ServiceName,
		TLS:         cfg.TLS,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.Deps{
			Harmonize: harmonizeUC,
			Portfolio: portfolioUC,
			Status:    statusUC,
			Preview:   previewUC,
			DB:        pool,
			Metrics:   metricsHandler,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("component failed, shutting down", "error", runErr)
		cancel()
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan engine stopped")
	return runErr
}
