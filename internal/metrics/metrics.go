package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamedex_webhook_requests_total",
			Help: "Webhook action invocations by action name and outcome",
		},
		[]string{"action", "outcome"},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamedex_catalog_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamedex_catalog_query_errors_total",
			Help: "Catalog store query failures",
		},
		[]string{"query"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamedex_recommendations_served_total",
			Help: "Recommendation results served by filter kind",
		},
		[]string{"kind"},
	)
)
