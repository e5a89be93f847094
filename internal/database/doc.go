// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package database is the admission store.

One table, admissions, holds one row per hospital stay. The store runs on
DuckDB by default (a single file, or ":memory:" in tests) and on Postgres
when database.driver is "postgres". Both go through database/sql with
github.com/jmoiron/sqlx for struct scanning; queries are written with "?"
placeholders and passed through sqlx Rebind so the same text works for both.

# Writes

Create inserts one record and returns it with its store-assigned ID.
ReplaceAdmissions erases the table and refills it inside one transaction:

	err := db.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
	    return insert(batch)
	})

If the fill function or any insert fails, the transaction rolls back and the
previous contents stay in place.

# Reports

HighRiskStats, ChronicReadmissions, InsulinSummary, ComplexClinical and
GenderAnalysis are the fixed read-only views served by the API. They run
through a github.com/sony/gobreaker/v2 circuit breaker; when it is open they
return ErrUnavailable without touching the connection pool.

# Schema

The schema is applied at open as versioned migrations recorded in
schema_migrations. Migrations are append-only.
*/
package database
