// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// Command api is the entry point for the CropSight HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire optional collaborators (object store, anomaly events, model gateway).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambinh/cropsight/internal/api"
	"github.com/phambinh/cropsight/internal/core/diagnosis"
	"github.com/phambinh/cropsight/internal/core/feedback"
	"github.com/phambinh/cropsight/internal/core/report"
	"github.com/phambinh/cropsight/internal/platform/config"
	"github.com/phambinh/cropsight/internal/platform/constants"
	"github.com/phambinh/cropsight/internal/platform/events"
	"github.com/phambinh/cropsight/internal/platform/migration"
	"github.com/phambinh/cropsight/internal/platform/objstore"
	pgstore "github.com/phambinh/cropsight/internal/platform/postgres"
	redisstore "github.com/phambinh/cropsight/internal/platform/redis"
	"github.com/phambinh/cropsight/internal/platform/sec"
	"github.com/phambinh/cropsight/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "cropsight"))
	slog.SetDefault(log)

	log.Info("[CropSight] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "cropsight"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Optional Collaborators ─────────────────────────────────────────
	// Object store for annotated diagnosis images. Reports still work
	// without it; annotated images are simply not persisted.
	var objects report.ObjectStore
	if cfg.S3Bucket != "" {
		store, serr := objstore.New(startupCtx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint, log)
		must(log, serr, "initialize object store")
		objects = store
	} else {
		log.Info("object_store_disabled")
	}

	// Kafka emitter for identity anomaly audit events. NewEmitter returns a
	// nil emitter when no brokers are configured; the identity service
	// tolerates that and falls back to logging only.
	emitter, err := events.NewEmitter(cfg.KafkaBrokers, cfg.KafkaAnomalyTopic, log)
	must(log, err, "initialize anomaly emitter")
	defer func() {
		if cerr := emitter.Close(); cerr != nil {
			log.Error("emitter close error", slog.Any("error", cerr))
		}
	}()

	// Prediction gateway: external model service when configured, built-in
	// rule engine otherwise.
	var gateway diagnosis.Gateway
	if cfg.PredictURL != "" {
		gateway = diagnosis.NewHTTPGateway(cfg.PredictURL, log)
		log.Info("prediction_gateway_external", slog.String("endpoint", cfg.PredictURL))
	} else {
		gateway = diagnosis.NewEngine(log)
		log.Info("prediction_gateway_builtin")
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckSessionStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	identityRepository := identity.NewIdentityRepository(pool)
	bindingRepository := identity.NewSessionBindingRepository(rdb)
	identityService := identity.NewService(identityRepository, bindingRepository, jwtSvc, emitter)
	identityHandler := identity.NewHandler(identityService)

	diagnosisHandler := diagnosis.NewHandler(gateway)

	reportRepository := report.NewReportRepository(pool)
	reportService := report.NewService(reportRepository, objects)
	reportHandler := report.NewHandler(reportService)

	feedbackRepository := feedback.NewFeedbackRepository(pool)
	feedbackService := feedback.NewService(feedbackRepository)
	feedbackHandler := feedback.NewHandler(feedbackService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Identity:  identityHandler,
		Diagnosis: diagnosisHandler,
		Report:    reportHandler,
		Feedback:  feedbackHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, identityService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
