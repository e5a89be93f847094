// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// @title Admissions API
// @version 1.0
// @description Clinical admission records and readmission reports.
// @description
// @description ## Authentication
// @description
// @description Authentication is off by default. With AUTH_MODE=jwt every /api route needs
// @description `Authorization: Bearer <token>`; tokens are issued with cmd/token.
// @description
// @description ## Pagination
// @description
// @description List reports return 10 results per page with absolute `next` and `previous`
// @description links. `?page=last` jumps to the final page. A page past the end is 404.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {}},
// @description   "meta": {"request_id": "...", "timestamp": "2026-01-01T00:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/admissions/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 token from cmd/token, sent as "Bearer <token>".
//
// @tag.name Admissions
// @tag.description Admission record intake
//
// @tag.name Analysis
// @tag.description Readmission and demographic reports
//
// @tag.name Health
// @tag.description Liveness and readiness checks
//
// @tag.name Admin
// @tag.description CSV reload and audit trail (admin role)
//
// @tag.name Realtime
// @tag.description Websocket feed of admission events
package main
