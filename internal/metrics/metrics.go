// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of admission store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of admission store query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests seen by the circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	// Ingestion Metrics
	IngestRowsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_loaded_total",
			Help: "Admission rows committed by the CSV loader",
		},
	)

	IngestRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_skipped_total",
			Help: "CSV rows skipped because they failed normalization",
		},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Loader runs by result",
		},
		[]string{"result"},
	)

	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Wall time of loader runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	// Event Metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admissions_events_total",
			Help: "Domain events by topic and direction",
		},
		[]string{"topic", "direction"}, // published, handled
	)

	// Cache Metrics
	ReportCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_requests_total",
			Help: "Report cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)
)

// RecordDBQuery records a store query and, when err is non-nil, an error.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Ingest run results.
const (
	IngestResultSuccess  = "success"
	IngestResultNotFound = "not_found"
	IngestResultFailed   = "failed"
)

// RecordIngestRun records the outcome of one loader run. Row counters only
// move on success because a failed run rolls back.
func RecordIngestRun(result string, loaded, skipped int64, duration time.Duration) {
	IngestRunsTotal.WithLabelValues(result).Inc()
	IngestRunDuration.Observe(duration.Seconds())
	if result == IngestResultSuccess {
		IngestRowsLoaded.Add(float64(loaded))
		IngestRowsSkipped.Add(float64(skipped))
	}
}

// RecordEvent counts a published or handled domain event.
func RecordEvent(topic, direction string) {
	EventsTotal.WithLabelValues(topic, direction).Inc()
}

// RecordCacheLookup counts one report cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ReportCacheRequests.WithLabelValues(result).Inc()
}
