package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/banco-sim-go/internal/config"
	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/boddenberg/banco-sim-go/internal/handler"
	"github.com/boddenberg/banco-sim-go/internal/infra/cache"
	"github.com/boddenberg/banco-sim-go/internal/infra/notify"
	"github.com/boddenberg/banco-sim-go/internal/infra/observability"
	"github.com/boddenberg/banco-sim-go/internal/infra/resilience"
	"github.com/boddenberg/banco-sim-go/internal/registry"
	"github.com/boddenberg/banco-sim-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("branch", cfg.BranchCode),
		zap.Float64("withdraw_limit", cfg.WithdrawLimit),
		zap.Int("max_withdrawals", cfg.MaxWithdrawals),
		zap.Duration("statement_cache_ttl", cfg.StatementCacheTTL),
		zap.Int("webhook_urls", len(cfg.WebhookURLs)),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "banco-sim")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Registry & cache ---
	reg := registry.NewInMemory(registry.Settings{
		Branch:         cfg.BranchCode,
		WithdrawLimit:  cfg.WithdrawLimit,
		MaxWithdrawals: cfg.MaxWithdrawals,
	})
	statementCache := cache.New[*domain.Statement](cfg.StatementCacheTTL)

	// --- Webhook notifier ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("webhooks")
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	notifier := notify.NewWebhookNotifier(httpClient, cfg.WebhookURLs, cb, resilienceCfg, cfg.WebhookTimeout, metrics, logger)
	if notifier.Enabled() {
		logger.Info("webhook notifier enabled", zap.Strings("urls", cfg.WebhookURLs))
	} else {
		logger.Info("webhook notifier disabled: no WEBHOOK_URLS configured")
	}

	// --- Service ---
	bankSvc := service.NewBankService(reg, statementCache, notifier, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(bankSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
