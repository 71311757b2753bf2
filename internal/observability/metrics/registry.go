// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track requests served by the status server
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Fetch metrics track calls to the upstream country API
var (
	// CountryFetchTotal counts fetch attempts by result
	CountryFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "country_fetch_total",
			Help: "Total number of country list fetches",
		},
		[]string{"result"}, // result: success, transport_error, decoding_error, rejected
	)

	// CountryFetchDuration measures time to fetch and decode the country list
	CountryFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "country_fetch_duration_seconds",
			Help:    "Time taken to fetch and decode the country list",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"result"},
	)

	// CountryFetchSize measures the response body size in bytes
	CountryFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "country_fetch_size_bytes",
			Help:    "Country list response size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 14), // up to 8MB
		},
	)

	// CountriesFetched tracks the number of countries decoded by the last successful fetch
	CountriesFetched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "countries_fetched",
			Help: "Number of countries returned by the last successful fetch",
		},
	)

	// CircuitBreakerOpen reports 1 while a circuit is open, 0 otherwise
	CircuitBreakerOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_open",
			Help: "Whether the named circuit breaker is open (1) or not (0)",
		},
		[]string{"circuit"},
	)
)

// Catalog metrics track the sortable country catalog
var (
	// CatalogCountries tracks the number of countries currently held by the catalog
	CatalogCountries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_countries",
			Help: "Number of countries held by the catalog",
		},
	)

	// CatalogLoadsTotal counts load requests by outcome
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Total number of catalog load requests",
		},
		[]string{"outcome"}, // outcome: cache_hit, loaded, failed, superseded
	)

	// CatalogSortChangesTotal counts sort criterion and direction changes
	CatalogSortChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sort_changes_total",
			Help: "Total number of sort criterion or direction changes",
		},
		[]string{"criterion"},
	)
)

// Refresh metrics track the scheduled catalog refresh job
var (
	// RefreshRunsTotal counts scheduled refresh runs by status
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_runs_total",
			Help: "Total number of scheduled catalog refresh runs",
		},
		[]string{"status"}, // status: success, failure
	)

	// RefreshDuration measures how long a scheduled refresh took
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of scheduled catalog refreshes",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 120},
		},
	)

	// RefreshLastSuccess records when a scheduled refresh last succeeded
	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_refresh_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful scheduled refresh",
		},
	)
)

// Quiz metrics track quiz sessions
var (
	// QuizStartsTotal counts quiz starts by outcome
	QuizStartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_starts_total",
			Help: "Total number of quiz starts",
		},
		[]string{"outcome"}, // outcome: started, fetch_failed, insufficient_data
	)

	// QuizGuessesTotal counts submitted answers by result
	QuizGuessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_guesses_total",
			Help: "Total number of quiz answers",
		},
		[]string{"result"}, // result: correct, wrong, repeat
	)

	// QuizzesFinishedTotal counts quizzes that reached the finished state
	QuizzesFinishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizzes_finished_total",
			Help: "Total number of finished quizzes",
		},
	)

	// QuizScoreRatio observes the final score divided by the question count
	QuizScoreRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score_ratio",
			Help:    "Final quiz score as a ratio of correct answers",
			Buckets: prometheus.LinearBuckets(0, 0.2, 6),
		},
	)
)

// Config metrics track configuration loading
var (
	// ConfigLoadTimestamp records when the configuration was last loaded
	ConfigLoadTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "config_load_timestamp_seconds",
			Help: "Unix timestamp of the last configuration load",
		},
	)

	// ConfigFallbacksTotal counts invalid settings replaced by their default
	ConfigFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_fallbacks_total",
			Help: "Total number of configuration fallbacks to default values",
		},
		[]string{"field"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
