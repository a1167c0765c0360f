// Package metrics holds the Prometheus collectors of the API process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Push delivery outcomes.
const (
	OutcomeDelivered    = "delivered"
	OutcomeInvalidToken = "invalid_token"
	OutcomeFailed       = "failed"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nano_social_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nano_social_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PushDeliveries counts per-token push attempts by outcome.
	PushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nano_social_push_deliveries_total",
			Help: "Per-token push delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	PrunedTokens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nano_social_push_tokens_pruned_total",
		Help: "Push tokens removed after the gateway reported them invalid",
	})

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nano_social_notifications_created_total",
			Help: "Notification records persisted by type",
		},
		[]string{"type"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nano_social_cache_lookups_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
