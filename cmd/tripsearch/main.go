package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/config"
	dbRedis "github.com/kailas-cloud/tripsearch/internal/db/redis"
	"github.com/kailas-cloud/tripsearch/internal/domain"
	logpkg "github.com/kailas-cloud/tripsearch/internal/logger"
	"github.com/kailas-cloud/tripsearch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/tripsearch/internal/repository/budget"
	triprepo "github.com/kailas-cloud/tripsearch/internal/repository/trip"
	"github.com/kailas-cloud/tripsearch/internal/tracing"
	chiTransport "github.com/kailas-cloud/tripsearch/internal/transport/chi"
	"github.com/kailas-cloud/tripsearch/internal/transport/nominatim"
	openaiPlanner "github.com/kailas-cloud/tripsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/tripsearch/internal/usecase/health"
	planuc "github.com/kailas-cloud/tripsearch/internal/usecase/plan"
	searchuc "github.com/kailas-cloud/tripsearch/internal/usecase/search"
	tripuc "github.com/kailas-cloud/tripsearch/internal/usecase/trip"
	usageuc "github.com/kailas-cloud/tripsearch/internal/usecase/usage"
	"github.com/kailas-cloud/tripsearch/internal/version"
)

const serviceName = "tripsearch"

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tripsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("planner_enabled", cfg.PlannerEnabled()),
	)

	ctx := context.Background()

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  serviceName,
		Environment:  env,
		Exporter:     cfg.Tracing.Exporter,
		Endpoint:     cfg.Tracing.Endpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		Insecure:     cfg.Tracing.Insecure,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Redis and Valkey share the RESP protocol; rueidis serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Search pipeline
	geocoder := nominatim.NewClient(nominatim.Config{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		ForceIPv4: *cfg.Geocoder.ForceIPv4,
	})
	searchSvc := searchuc.New(geocoder, searchuc.WithMaxLimit(cfg.Search.MaxLimit))

	// Planner chain and its budget
	var (
		completer     domain.Completer
		plannerHealth healthuc.PlannerChecker
		budgetReader  usageuc.BudgetReader
	)
	if cfg.PlannerEnabled() {
		budget := planuc.NewBudgetTracker(planuc.BudgetConfig{
			KeyPrefix:    cfg.Storage.KeyPrefix,
			DailyLimit:   cfg.Planner.Budget.DailyTokenLimit,
			MonthlyLimit: cfg.Planner.Budget.MonthlyTokenLimit,
			Action:       planuc.BudgetAction(cfg.Planner.Budget.Action),
		}, logger)
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		budgetReader = budget

		planner := openaiPlanner.NewPlanner(&openaiPlanner.Config{
			APIKey:  cfg.Planner.APIKey,
			BaseURL: cfg.Planner.BaseURL,
			Model:   cfg.Planner.Model,
			Timeout: time.Duration(cfg.Planner.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		plannerHealth = planner
		completer = buildCompleter(planner, budget, cfg.Planner.Language, logger)

		logger.Info("Planner configured",
			zap.String("model", planner.Model()),
			zap.Int64("daily_token_limit", cfg.Planner.Budget.DailyTokenLimit),
			zap.Int64("monthly_token_limit", cfg.Planner.Budget.MonthlyTokenLimit),
		)
	}
	planSvc := planuc.New(completer, cfg.Planner.Language)

	tripSvc := tripuc.New(triprepo.New(store, cfg.Storage.KeyPrefix))
	usageSvc := usageuc.New(budgetReader)
	healthSvc := healthuc.New(store, plannerHealth)

	server := chiTransport.NewServer(searchSvc, planSvc, tripSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(otelhttp.NewMiddleware(serviceName))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error flushing traces", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter assembles the decorator chain: OpenAI -> Instrumented -> SystemPrompt.
func buildCompleter(
	base *openaiPlanner.Planner,
	budget *planuc.BudgetTracker,
	language string,
	logger *zap.Logger,
) domain.Completer {
	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var checker planuc.BudgetChecker
	if budget != nil {
		checker = budget
	}

	instrumented := planuc.NewInstrumentedCompleter(base, base.Model(), checker, logger)

	// System instruction outermost, so every provider call carries it
	return domain.NewSystemPromptCompleter(instrumented, planuc.SystemInstruction(language))
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{Error: "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
