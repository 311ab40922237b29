package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultCreated  = "created"
	ResultExisting = "existing"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kitchen_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kitchen_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Reference data
	ReferenceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_reference_resolutions_total",
			Help: "Reference data lookups by kind and whether a row was created",
		},
		[]string{"kind", "result"},
	)

	// Recipes
	RecipesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kitchen_recipes_published_total",
			Help: "Total number of recipes that left the draft state",
		},
	)
)

func ObserveResolution(kind string, created bool) {
	result := ResultExisting
	if created {
		result = ResultCreated
	}
	ReferenceResolutions.WithLabelValues(kind, result).Inc()
}

// Handler serves the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
