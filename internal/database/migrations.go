// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/logging"
)

// Migration represents a versioned schema change. DuckDB and Postgres
// disagree on identity columns, so each migration carries per-driver SQL.
type Migration struct {
	Version     int       `db:"version"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	AppliedAt   time.Time `db:"applied_at"`

	duckdb   []string
	postgres []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
)`

const admissionsColumns = `
	admission_date DATE NOT NULL,
	race VARCHAR(20) NOT NULL,
	sex VARCHAR(10) NOT NULL,
	age_group VARCHAR(20) NOT NULL,
	hospital_stay INTEGER NOT NULL CHECK (hospital_stay >= 0),
	hba1c VARCHAR(20) NOT NULL,
	diabetes_med BOOLEAN NOT NULL,
	admit_source VARCHAR(20) NOT NULL,
	patient_visits INTEGER NOT NULL CHECK (patient_visits >= 0),
	num_medications INTEGER NOT NULL CHECK (num_medications >= 0),
	num_diagnosis INTEGER NOT NULL CHECK (num_diagnosis >= 0),
	insulin_level VARCHAR(20) NOT NULL,
	readmitted BOOLEAN NOT NULL`

var dataVersionStatements = []string{
	`CREATE TABLE IF NOT EXISTS admissions_version (
	id INTEGER PRIMARY KEY,
	version BIGINT NOT NULL
)`,
	`INSERT INTO admissions_version (id, version) VALUES (1, 0)`,
}

// migrations returns all versioned migrations in order.
// Migrations MUST be append-only once a database exists in the field.
func migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "create_admissions",
			Description: "Create the admissions table",
			duckdb: []string{
				`CREATE SEQUENCE IF NOT EXISTS admissions_id_seq START 1`,
				`CREATE TABLE IF NOT EXISTS admissions (
	id BIGINT PRIMARY KEY DEFAULT nextval('admissions_id_seq'),` + admissionsColumns + `
)`,
			},
			postgres: []string{
				`CREATE TABLE IF NOT EXISTS admissions (
	id BIGSERIAL PRIMARY KEY,` + admissionsColumns + `
)`,
			},
		},
		{
			// DuckDB scans are fast enough at this size and its ART indexes
			// slow the bulk erase, so only Postgres gets indexes.
			Version:     2,
			Name:        "index_report_filters",
			Description: "Index the columns the report views filter and sort on",
			postgres: []string{
				`CREATE INDEX IF NOT EXISTS idx_admissions_readmitted_date ON admissions (readmitted, admission_date DESC, id DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_admissions_stay ON admissions (hospital_stay DESC, id DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_admissions_sex ON admissions (sex)`,
			},
		},
		{
			Version:     3,
			Name:        "track_data_version",
			Description: "Single-row counter bumped by every write to admissions",
			duckdb:      dataVersionStatements,
			postgres:    dataVersionStatements,
		},
	}
}

func (m Migration) statements(driver string) []string {
	if driver == config.DriverPostgres {
		return m.postgres
	}
	return m.duckdb
}

// runMigrations executes migrations that have not been applied yet. Each
// migration and its bookkeeping row commit together.
func (db *DB) runMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	newMigrations := 0
	for _, m := range migrations() {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return err
		}
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	var versions []int
	if err := db.conn.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) (err error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration v%d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Migration rollback failed")
			}
		}
	}()

	for _, stmt := range m.statements(db.driver) {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, db.conn.Rebind(
		`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`),
		m.Version, m.Name, m.Description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration v%d: %w", m.Version, err)
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration version
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	if db == nil || db.conn == nil {
		return 0, ErrNilDB
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	if err := db.conn.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// MigrationHistory returns all applied migrations in order
func (db *DB) MigrationHistory(ctx context.Context) ([]Migration, error) {
	if db == nil || db.conn == nil {
		return nil, ErrNilDB
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var history []Migration
	err := db.conn.SelectContext(ctx, &history,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	return history, nil
}
