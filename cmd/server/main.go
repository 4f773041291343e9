package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/api"
	"github.com/shiftbook/mailroom/internal/config"
	"github.com/shiftbook/mailroom/internal/db"
	"github.com/shiftbook/mailroom/internal/gateway"
	"github.com/shiftbook/mailroom/internal/metrics"
	"github.com/shiftbook/mailroom/internal/payments"
	"github.com/shiftbook/mailroom/internal/provider"
	"github.com/shiftbook/mailroom/internal/ratelimiter"
	"github.com/shiftbook/mailroom/internal/repository"
	"github.com/shiftbook/mailroom/internal/service"
	"github.com/shiftbook/mailroom/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- redis (rate-limit counters) ----
	// Created once for the process lifetime and shared by both guards;
	// a Redis outage degrades limiter decisions, it never fails startup.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	counterStore := ratelimiter.NewRedisStore(rdb)

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	emailRepo := repository.NewPgEmailRepository(pool)
	auditRepo := repository.NewPgAuditLogRepository(pool)
	mailProv := provider.NewTemplateMailProvider(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailTimeout)
	checkoutProv := payments.NewCheckoutProvider(cfg.CheckoutBaseURL, cfg.CheckoutAPIKey, cfg.CheckoutTimeout)

	checkoutLimiter := ratelimiter.New(counterStore, "checkout",
		cfg.CheckoutLimit, cfg.CheckoutWindow, cfg.LimiterTimeout, logger)
	logLimiter := ratelimiter.New(counterStore, "logs",
		cfg.LogInsertLimit, cfg.LogInsertWindow, cfg.LimiterTimeout, logger)

	checkoutGuard := gateway.NewGuard(checkoutLimiter,
		gateway.ParsePolicy(cfg.CheckoutPolicy), logger, m.GuardHook("checkout"))
	logGuard := gateway.NewGuard(logLimiter,
		gateway.ParsePolicy(cfg.LogInsertPolicy), logger, m.GuardHook("logs"))

	emailSvc := service.NewEmailService(emailRepo, logger)
	checkoutSvc := service.NewCheckoutService(checkoutProv, logger)

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	dispatcher := worker.NewDispatcher(mailProv, cfg.SendRate, logger)
	finalizer := worker.NewFinalizer(emailRepo, logger)
	drainer := worker.NewDrainer(emailRepo, dispatcher, finalizer,
		cfg.DrainBatchSize, cfg.DrainInterval, logger, m.DrainerHooks())
	sweeper := worker.NewSweeper(emailRepo, cfg.StaleAfter, cfg.SweepInterval, logger)

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		drainer.Run(workerCtx)
	}()
	go func() {
		defer workers.Done()
		sweeper.Run(workerCtx)
	}()

	// ---- HTTP server ----
	router := api.NewRouter(api.Deps{
		Emails:        emailSvc,
		Checkout:      checkoutSvc,
		AuditLogs:     auditRepo,
		Drainer:       drainer,
		CheckoutGuard: checkoutGuard,
		LogGuard:      logGuard,
		Registry:      reg,
		Logger:        logger,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Signal the drain and sweep workers to stop.
	cancelWorkers()

	// 3. Wait for an in-flight drain cycle to finish. Anything left in
	//    processing after a hard kill is recovered by the sweeper on the
	//    next start.
	workers.Wait()

	logger.Info("server stopped cleanly")
}
