package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authorization metrics
	AuthDenialsTotal  *prometheus.CounterVec
	SignInsTotal      *prometheus.CounterVec
	SuspendedAttempts prometheus.Counter

	// Reconciliation metrics
	ProfilesCreatedTotal      prometheus.Counter
	ReconciliationErrorsTotal prometheus.Counter

	// Gated resource metrics
	SignedURLsIssuedTotal prometheus.Counter
	SignedURLErrorsTotal  prometheus.Counter

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthDenialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_auth_denials_total",
				Help: "Total number of denied requests by denial reason",
			},
			[]string{"reason"},
		),
		SignInsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_sign_ins_total",
				Help: "Total number of completed sign-ins by outcome",
			},
			[]string{"outcome"},
		),
		SuspendedAttempts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_suspended_access_attempts_total",
				Help: "Total number of protected-area requests from suspended accounts",
			},
		),
		ProfilesCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_profiles_created_total",
				Help: "Total number of profiles created by first sign-in reconciliation",
			},
		),
		ReconciliationErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_reconciliation_errors_total",
				Help: "Total number of failed profile reconciliations",
			},
		),
		SignedURLsIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_signed_urls_issued_total",
				Help: "Total number of timed access URLs issued for course files",
			},
		),
		SignedURLErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campus_signed_url_errors_total",
				Help: "Total number of failed timed access URL requests",
			},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "campus_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "campus_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthDenialsTotal,
		m.SignInsTotal,
		m.SuspendedAttempts,
		m.ProfilesCreatedTotal,
		m.ReconciliationErrorsTotal,
		m.SignedURLsIssuedTotal,
		m.SignedURLErrorsTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry in Prometheus format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
