// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/metrics"
	"github.com/tomtom215/admissions/internal/models"
)

// insertColumns is every admissions column except id, in bind order.
const insertColumns = `admission_date, race, sex, age_group, hospital_stay, hba1c, diabetes_med,
	admit_source, patient_visits, num_medications, num_diagnosis, insulin_level, readmitted`

const selectColumns = `id, ` + insertColumns

const columnsPerRow = 13

// maxRowsPerStatement keeps multi-row inserts well under the Postgres
// 65535 bind parameter limit.
const maxRowsPerStatement = 500

var rowPlaceholders = "(" + strings.TrimSuffix(strings.Repeat("?, ", columnsPerRow), ", ") + ")"

func admissionArgs(a *models.Admission) []any {
	return []any{
		a.AdmissionDate.Time, a.Race, a.Sex, a.AgeGroup, a.HospitalStay, a.HbA1c, a.DiabetesMed,
		a.AdmitSource, a.PatientVisits, a.NumMedications, a.NumDiagnosis, a.InsulinLevel, a.Readmitted,
	}
}

// Create inserts one admission exactly as given and sets a.ID to the
// store-assigned identifier.
func (db *DB) Create(ctx context.Context, a *models.Admission) (err error) {
	if db == nil || db.conn == nil {
		return ErrNilDB
	}
	if a == nil {
		return fmt.Errorf("create admission: nil record")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", "admissions", time.Since(start), err)
	}()

	release, err := db.acquireWrite(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	query := db.conn.Rebind(`INSERT INTO admissions (` + insertColumns + `) VALUES ` + rowPlaceholders + ` RETURNING id`)
	if err = tx.QueryRowxContext(ctx, query, admissionArgs(a)...).Scan(&a.ID); err != nil {
		return fmt.Errorf("failed to insert admission: %w", err)
	}
	if err = bumpDataVersion(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit admission: %w", err)
	}
	return nil
}

// DataVersion returns a counter that moves on every committed write to
// the admissions table, including writes made by other processes sharing
// the database.
func (db *DB) DataVersion(ctx context.Context) (int64, error) {
	return guarded(ctx, db, "data_version", func(ctx context.Context) (int64, error) {
		var v int64
		if err := db.conn.GetContext(ctx, &v, `SELECT version FROM admissions_version WHERE id = 1`); err != nil {
			return 0, fmt.Errorf("failed to read data version: %w", err)
		}
		return v, nil
	})
}

func bumpDataVersion(ctx context.Context, tx *sqlx.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE admissions_version SET version = version + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to bump data version: %w", err)
	}
	return nil
}

func rollbackOnError(tx *sqlx.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil {
		logging.Error().
			Err(rbErr).
			AnErr("original_error", *err).
			Msg("Transaction rollback failed")
	}
}

// GetAdmission returns the admission with the given id or ErrNotFound.
func (db *DB) GetAdmission(ctx context.Context, id int64) (*models.Admission, error) {
	return guarded(ctx, db, "get", func(ctx context.Context) (*models.Admission, error) {
		var a models.Admission
		err := db.conn.GetContext(ctx, &a, db.conn.Rebind(`SELECT `+selectColumns+` FROM admissions WHERE id = ?`), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get admission %d: %w", id, err)
		}
		return &a, nil
	})
}

// CountAdmissions returns the number of stored admissions.
func (db *DB) CountAdmissions(ctx context.Context) (int64, error) {
	return guarded(ctx, db, "count", func(ctx context.Context) (int64, error) {
		var n int64
		if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM admissions`); err != nil {
			return 0, fmt.Errorf("failed to count admissions: %w", err)
		}
		return n, nil
	})
}

// DeleteAll removes every admission. It is the only delete the store offers.
func (db *DB) DeleteAll(ctx context.Context) (n int64, err error) {
	if db == nil || db.conn == nil {
		return 0, ErrNilDB
	}
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("delete", "admissions", time.Since(start), err)
	}()

	release, err := db.acquireWrite(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	res, err := tx.ExecContext(ctx, `DELETE FROM admissions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete admissions: %w", err)
	}
	n, _ = res.RowsAffected()
	if err = bumpDataVersion(ctx, tx); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return n, nil
}

// ReplaceAdmissions erases the table and calls fill with an insert function
// bound to the same transaction. The erase and every insert commit together;
// any error from fill or an insert rolls all of it back.
func (db *DB) ReplaceAdmissions(ctx context.Context, fill func(insert func([]models.Admission) error) error) (err error) {
	if db == nil || db.conn == nil {
		return ErrNilDB
	}
	if fill == nil {
		return fmt.Errorf("replace admissions: nil fill function")
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace", "admissions", time.Since(start), err)
	}()

	release, err := db.acquireWrite(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer rollbackOnError(tx, &err)

	if _, err = tx.ExecContext(ctx, `DELETE FROM admissions`); err != nil {
		return fmt.Errorf("failed to erase admissions: %w", err)
	}

	insert := func(batch []models.Admission) error {
		return insertBatch(ctx, tx, batch)
	}
	if err = fill(insert); err != nil {
		return err
	}
	if err = bumpDataVersion(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertBatch writes records with multi-row VALUES statements.
func insertBatch(ctx context.Context, ext sqlx.ExtContext, batch []models.Admission) error {
	for len(batch) > 0 {
		n := min(len(batch), maxRowsPerStatement)
		chunk := batch[:n]
		batch = batch[n:]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO admissions (` + insertColumns + `) VALUES `)
		args := make([]any, 0, len(chunk)*columnsPerRow)
		for i := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(rowPlaceholders)
			args = append(args, admissionArgs(&chunk[i])...)
		}

		if _, err := ext.ExecContext(ctx, ext.Rebind(sb.String()), args...); err != nil {
			return fmt.Errorf("failed to insert %d admissions: %w", len(chunk), err)
		}
	}
	return nil
}
