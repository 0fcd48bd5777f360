// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("port", 8080).Info("server started")
//
// Request-scoped logging:
//
//	logger := observability.FromContext(r.Context())
//	logger.WithError(err).Warn("profile lookup failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.AuthDenialsTotal.WithLabelValues("login_required").Inc()
//	metrics.SignedURLErrorsTotal.Inc()
//
// # OpenTelemetry
//
// Initialize tracing:
//
//	providers, err := observability.InitTracing(ctx, cfg, logger)
//	defer observability.ShutdownTracing(ctx, providers, logger)
//
// Spans are created by the store and media packages on every external call.
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/middleware: Request logging and metrics middleware
package observability
