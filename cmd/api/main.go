package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/caretaker-ai/cmd/mainconfig"
	"github.com/wolfman30/caretaker-ai/internal/api/router"
	"github.com/wolfman30/caretaker-ai/internal/app/bootstrap"
	"github.com/wolfman30/caretaker-ai/internal/audit"
	"github.com/wolfman30/caretaker-ai/internal/bills"
	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
	"github.com/wolfman30/caretaker-ai/internal/content"
	"github.com/wolfman30/caretaker-ai/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/caretaker-ai/internal/http/middleware"
	"github.com/wolfman30/caretaker-ai/internal/mediation"
	"github.com/wolfman30/caretaker-ai/internal/observability/metrics"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

func main() {
	// Local development reads .env; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting caretaker-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"model_provider", cfg.ModelProvider,
		"audit_backend", cfg.AuditBackend,
	)

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsHandler, safetyMetrics := setupMetrics()

	redisClient := bootstrap.BuildRedisClient(appCtx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	dbs, err := bootstrap.BuildDatabases(appCtx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbs.Close()

	gateway, err := bootstrap.BuildGateway(appCtx, cfg, logger, safetyMetrics, mainconfig.LoadAWSConfig)
	if err != nil {
		logger.Error("model gateway misconfigured", "error", err)
		os.Exit(1)
	}
	defer gateway.Close()

	auditStore, err := bootstrap.BuildAuditStore(cfg, redisClient, dbs.SQL, logger)
	if err != nil {
		logger.Error("audit store misconfigured", "error", err)
		os.Exit(1)
	}
	auditLog := audit.NewLogger(auditStore, logger)

	pipeline := mediation.New(mediation.Config{
		Gateway: gateway,
		Audit:   auditLog,
		Metrics: safetyMetrics,
		Logger:  logger,
	})
	extractor := content.NewExtractor(gateway, logger, safetyMetrics)
	analyzer := bills.NewAnalyzer(gateway, logger)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := router.New(&router.Config{
		Logger:  logger,
		Health:  handlers.NewHealthHandler(healthChecks(redisClient, dbs.Pool)),
		Chat:    handlers.NewChatHandler(pipeline, logger),
		Content: handlers.NewContentHandler(extractor, logger),
		Bills: handlers.NewBillsHandler(handlers.BillsConfig{
			Analyzer: analyzer,
			Repo:     billRepository(dbs.Pool, logger),
			Logger:   logger,
		}),
		AI:                 handlers.NewAIHandler(gateway, logger),
		Audit:              handlers.NewAuditHandler(auditLog, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-appCtx.Done()
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.SafetyMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewSafetyMetrics(reg)
}

func healthChecks(redisClient *redis.Client, pool *pgxpool.Pool) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	return checks
}

func billRepository(pool *pgxpool.Pool, logger *logging.Logger) bills.Repository {
	if pool == nil {
		logger.Warn("DATABASE_URL not set; bill history is kept in memory")
		return bills.NewMemoryRepository()
	}
	return bills.NewPostgresRepository(pool)
}
