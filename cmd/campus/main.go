package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opencourse/campus/pkg/authz"
	"github.com/opencourse/campus/pkg/config"
	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/media"
	"github.com/opencourse/campus/pkg/middleware"
	"github.com/opencourse/campus/pkg/observability"
	"github.com/opencourse/campus/pkg/profile"
	"github.com/opencourse/campus/pkg/web"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.InfoLevel, os.Stdout).WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ctx := context.Background()

	tracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.TracingEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("failed to initialize tracing")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Storage.PostgresURL)
	if err != nil {
		logger.WithError(err).Error("failed to open database")
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Storage.PostgresMaxConns)
	db.SetMaxIdleConns(cfg.Storage.PostgresMinConns)
	if err := db.Ping(); err != nil {
		logger.WithError(err).Error("failed to ping database")
		os.Exit(1)
	}

	provider, err := identity.NewOIDCProvider(ctx, cfg.Auth)
	if err != nil {
		logger.WithError(err).Error("failed to discover identity provider")
		os.Exit(1)
	}

	signer, err := media.NewSigner(cfg.Storage)
	if err != nil {
		logger.WithError(err).Error("failed to initialize object storage signer")
		os.Exit(1)
	}

	profiles := profile.NewStore(db)
	courses := course.NewStore(db)
	bridge := identity.NewBridge(provider, logger)
	guard := authz.NewGuard(profiles, logger, metrics)
	reconciler := profile.NewReconciler(profiles, logger, metrics)
	resolver := media.NewResolver(signer, logger, metrics)

	server := web.NewServer(bridge, guard, profiles, reconciler, courses, resolver, logger, metrics)

	// Middleware order: recovery outermost, then request ID, logging,
	// metrics, session resolution, and the boundary gate innermost.
	var handler http.Handler = server
	handler = middleware.Boundary(middleware.DefaultBoundaryConfig(), logger, metrics)(handler)
	handler = middleware.Session(bridge)(handler)
	if cfg.Observability.MetricsEnabled {
		handler = middleware.Metrics(metrics)(handler)
	}
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	appServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	go func() {
		logger.WithField("addr", appServer.Addr).Info("campus server listening")
		if err := appServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := appServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown incomplete")
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("health server shutdown incomplete")
	}
	if err := observability.ShutdownTracing(shutdownCtx, tracing, logger); err != nil {
		logger.WithError(err).Warn("tracing shutdown incomplete")
	}

	logger.Info("campus stopped")
}
