package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by the recorder
const (
	MetricHTTPRequest         = "http_request"
	MetricHTTPRequestDuration = "http_request_duration"
	MetricAPIError            = "api_error"
	MetricAuthenticationEvent = "authentication_event"
	MetricLedgerWrite         = "ledger_write"

	// MetricDashboardQuery is a prefix; the operation name follows the dot
	MetricDashboardQuery = "dashboard_query."
)

type PrometheusMetrics struct {
	httpRequestsTotal         *prometheus.CounterVec
	httpRequestDuration       prometheus.Histogram
	apiErrorsTotal            *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
	ledgerWritesTotal         *prometheus.CounterVec
	dashboardQueryDuration    *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the collectors on reg. A nil reg uses the
// default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		apiErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API error responses by code",
			},
			[]string{"code", "status"},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event", "outcome"},
		),
		ledgerWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_writes_total",
				Help: "Total number of transaction and budget writes",
			},
			[]string{"resource", "operation"},
		),
		dashboardQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_query_duration_seconds",
				Help:    "Dashboard computation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricHTTPRequest:
		m.httpRequestsTotal.WithLabelValues(tags["method"], tags["path"], tags["status"]).Inc()
	case MetricAPIError:
		if code := tags["code"]; code != "" {
			m.apiErrorsTotal.WithLabelValues(code, tags["status"]).Inc()
		}
	case MetricAuthenticationEvent:
		if event := tags["event"]; event != "" {
			m.authenticationEventsTotal.WithLabelValues(event, tags["outcome"]).Inc()
		}
	case MetricLedgerWrite:
		m.ledgerWritesTotal.WithLabelValues(tags["resource"], tags["operation"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if operation, ok := strings.CutPrefix(name, MetricDashboardQuery); ok {
		m.dashboardQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
		return
	}

	switch name {
	case MetricHTTPRequestDuration:
		m.httpRequestDuration.Observe(duration.Seconds())
	}
}
