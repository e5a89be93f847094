// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package middleware provides HTTP middleware for the admissions router.

Both components are plain func(http.Handler) http.Handler values so they can
be passed straight to chi's r.Use:

  - RequestID: reads or generates X-Request-ID and stores it, together with
    a fresh correlation ID, in the request context for logging.Ctx.
  - PrometheusMetrics: records api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by the chi route pattern so paginated
    query strings and ids do not blow up label cardinality.

Order matters: RequestID should run before PrometheusMetrics and before any
handler that writes an error envelope, since envelopes carry the request ID.
*/
package middleware
