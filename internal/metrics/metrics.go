package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "tripsearch"

// Geocoder Prometheus metrics.
var (
	GeocoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "geocoder_requests_total",
			Help:      "Total number of outbound geocoder requests",
		},
		[]string{"status"}, // "ok" / "unavailable" / "http_<code>"
	)

	GeocoderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "geocoder_request_duration_seconds",
			Help:      "Outbound geocoder request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	GeocoderMalformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "geocoder_malformed_responses_total",
			Help:      "Geocoder responses that were not a JSON array",
		},
	)
)

// Search Prometheus metrics.
var (
	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of candidates returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	SearchBiasTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_bias_total",
			Help:      "Searches by whether a caller location biased the ranking",
		},
		[]string{"bias"}, // "true" / "false"
	)
)

// Planner Prometheus metrics.
var (
	PlannerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "planner_requests_total",
			Help:      "Total number of itinerary completions",
		},
		[]string{"model", "status"},
	)

	PlannerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "planner_request_duration_seconds",
			Help:      "Itinerary completion duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	PlannerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "planner_tokens_total",
			Help:      "Total planner tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	PlannerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "planner_errors_total",
			Help:      "Total planner errors",
		},
		[]string{"model", "error_type"},
	)

	PlannerBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "planner_budget_tokens_remaining",
			Help:      "Remaining planner token budget",
		},
		[]string{"period"},
	)
)

var registerOnce sync.Once

// RegisterDomainMetrics registers geocoder, search and planner metrics. Call once from main.
func RegisterDomainMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			GeocoderRequestsTotal,
			GeocoderRequestDuration,
			GeocoderMalformedTotal,
			SearchResults,
			SearchBiasTotal,
			PlannerRequestsTotal,
			PlannerRequestDuration,
			PlannerTokensTotal,
			PlannerErrorsTotal,
			PlannerBudgetTokensRemaining,
		)
	})
}
