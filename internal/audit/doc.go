// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package audit keeps a trail of who changed the admission store and who
// was refused access.
//
// # Event Types
//
//   - admission.created: a record added through POST /api/data/add/
//   - admissions.reloaded: a completed CSV load (API or startup)
//   - auth.failure: a request rejected with 401
//   - authz.denied: a request rejected with 403
//
// # Architecture
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//	                     |                      |
//	                 Non-blocking           Background goroutine
//
// Data events reach the Logger through the event bus (Logger.Subscribe).
// Access failures reach it through Logger.ErrorWriter, which wraps the
// error writer handed to the auth and authz middleware.
//
// # Storage
//
// SQLStore writes to an audit_events table in the admission database and
// works on both DuckDB and PostgreSQL. MemoryStore is bounded and meant
// for tests and for running with audit persistence off.
//
// # Retention
//
// Logger.Serve is a suture.Service that deletes events older than
// Config.Retention once per Config.CleanupInterval.
package audit
