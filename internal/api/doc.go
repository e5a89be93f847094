// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package api provides the HTTP surface of the admissions service.

Routes (chi):

	POST /api/data/add/                         create one admission
	GET  /api/analysis/demographic-stats/       high-risk senior stats
	GET  /api/analysis/chronic-readmissions/    paginated list
	GET  /api/analysis/medication-insulin/      grouped by insulin level
	GET  /api/analysis/complex-clinical/        paginated list
	GET  /api/analysis/gender-metrics/          grouped by sex
	GET  /api/v1/health/live                    liveness
	GET  /api/v1/health/ready                   readiness (store ping)
	POST /api/v1/admin/reload                   reload from the CSV source
	GET  /api/v1/admin/reload                   last completed load
	GET  /api/v1/admin/audit                    audit trail, newest first
	GET  /api/v1/events/ws                      websocket feed of admission events
	GET  /metrics                               Prometheus
	GET  /swagger/*                             API docs

Successful report responses are the bare JSON documents the reports
define. Errors use the envelope

	{"success": false, "error": {"code": "...", "message": "...", "details": {...}}, "meta": {...}}

Paginated lists return {"count", "next", "previous", "results"} with a
fixed page size of 10 and absolute next/previous URLs.

When security.auth_mode is "jwt" the /api/data, /api/analysis,
/api/v1/admin and /api/v1/events routes sit behind auth.Middleware and
authz.Middleware.
*/
package api
