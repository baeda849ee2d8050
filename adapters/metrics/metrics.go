// Package metrics provides Prometheus metrics collection for calcd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for calcd.
type Collector struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Validation metrics
	ValidationRejections *prometheus.CounterVec

	// Rate limit metrics
	RateLimitHits       *prometheus.CounterVec
	RateLimitStoreFails prometheus.Counter

	// Audit metrics
	AuditRecords prometheus.Counter
	AuditDrops   prometheus.Counter

	// Solver metrics
	SolverRequests *prometheus.CounterVec
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "requests_total",
				Help:      "Total number of calculation requests processed",
			},
			[]string{"api", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "calcd",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"api"},
		),
		ValidationRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "validation_rejections_total",
				Help:      "Total number of requests rejected by input validation",
			},
			[]string{"api"},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rate limit rejections",
			},
			[]string{"api"},
		),
		RateLimitStoreFails: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "rate_limit_store_failures_total",
				Help:      "Total number of limiter backing-store errors (fail-closed)",
			},
		),
		AuditRecords: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "audit_records_total",
				Help:      "Total number of usage records queued",
			},
		),
		AuditDrops: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "audit_drops_total",
				Help:      "Total number of usage records dropped on store failure",
			},
		),
		SolverRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calcd",
				Name:      "solver_requests_total",
				Help:      "Total number of AI calculator queries by resolution source",
			},
			[]string{"source", "outcome"},
		),
	}
}
