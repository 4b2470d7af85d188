// Package metrics defines Prometheus metrics for zakeke-sync.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zakeke_sync"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded, 0 otherwise.",
	})
)

// Import submission metrics.
var (
	ImportsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imports_submitted_total",
		Help:      "Total number of product imports submitted to Zakeke.",
	})

	ImportErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_errors_total",
		Help:      "Total number of failed import submissions.",
	})

	ImportCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_cycle_duration_seconds",
		Help:      "Duration of import submission cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Import status poll metrics.
var (
	ImportPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_polls_total",
		Help:      "Total number of import task status polls.",
	})

	ImportsSucceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imports_succeeded_total",
		Help:      "Total number of imports confirmed successful by Zakeke.",
	})

	ImportsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imports_failed_total",
		Help:      "Total number of imports reported failed by Zakeke.",
	})
)

// Artifact fetch metrics.
var (
	ArtifactsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artifacts_fetched_total",
		Help:      "Total number of print-ready artifacts attached to order items.",
	})

	ArtifactErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artifact_errors_total",
		Help:      "Total number of artifact fetch failures.",
	})

	ArtifactCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "artifact_cycle_duration_seconds",
		Help:      "Duration of artifact fetch cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_completed_total",
		Help:      "Total number of orders transitioned to the completed status.",
	})
)

// Zakeke API metrics.
var (
	APICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total cumulative Zakeke API calls.",
	})

	APIDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_daily_usage",
		Help:      "Current daily Zakeke API call count within the rolling 24-hour window.",
	})

	APIDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_daily_limit_hits_total",
		Help:      "Total number of times the daily Zakeke API limit was reached.",
	})
)
