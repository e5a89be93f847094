// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package metrics declares the Prometheus collectors for the service.

Collectors are registered on the default registry through promauto and are
served at /metrics by promhttp.Handler in the API router.

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

Database:
  - db_query_duration_seconds{operation, table}
  - db_query_errors_total{operation, table}

Circuit breaker:
  - circuit_breaker_state{name}: 0=closed, 1=open, 2=half-open
  - circuit_breaker_transitions_total{name, from, to}
  - circuit_breaker_requests_total{name, result}

Ingestion:
  - ingest_rows_loaded_total, ingest_rows_skipped_total
  - ingest_runs_total{result}: success, not_found, failed
  - ingest_run_duration_seconds

Events:
  - admissions_events_total{topic, direction}: published or handled
*/
package metrics
