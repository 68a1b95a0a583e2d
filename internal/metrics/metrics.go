package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dyecalc"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	RecipesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipes_saved_total",
		Help:      "Recipes persisted successfully.",
	})

	RecipeSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipe_save_failures_total",
		Help:      "Recipe saves that failed in the store.",
	})

	// ExtractionRequests is labelled by result: ok, failed or invalid.
	ExtractionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_requests_total",
		Help:      "Production report extraction attempts.",
	}, []string{"result"})

	ProductionRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "production_records",
		Help:      "Production records seen by the last dashboard aggregation.",
	})
)
