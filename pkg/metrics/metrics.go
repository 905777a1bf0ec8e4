package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedesk_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// GuardDecisions counts route-guard outcomes (allow|redirect|masked).
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedesk_guard_decisions_total",
			Help: "Total number of route guard decisions",
		},
		[]string{"result"},
	)

	// ResourceChecks counts live per-resource authorization checks and their
	// outcome (allowed|denied|error) by resource kind.
	ResourceChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedesk_resource_checks_total",
			Help: "Total number of live resource authorization checks",
		},
		[]string{"resource", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricedesk_api_latency_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
