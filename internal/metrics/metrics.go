// Package metrics registers the Prometheus instruments for the client core.
// Everything is registered on the default registry; the mock server exposes
// it at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts completed API operations by endpoint and outcome
	// (success/failure). Retried attempts count once, at resolution.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circlepos_api_requests_total",
			Help: "Completed API operations by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// APIRetries counts backoff retries by endpoint.
	APIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circlepos_api_retries_total",
			Help: "Retry attempts per endpoint.",
		},
		[]string{"endpoint"},
	)

	// APIRequestDuration observes wall time per API operation, retries and
	// backoff included.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "circlepos_api_request_duration_seconds",
			Help:    "API operation duration in seconds, including retries.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Purchases counts purchase outcomes recorded in the history.
	Purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circlepos_purchases_total",
			Help: "Purchase attempts by final status.",
		},
		[]string{"status"},
	)
)
