// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/admissions/internal/models"
)

// Report filters. Each list view keeps its WHERE clause in one place so the
// count and page queries cannot drift apart.
const (
	highRiskWhere = `UPPER(hba1c) = ? AND age_group = ?`
	chronicWhere  = `(patient_visits > 5 OR num_medications > 20) AND readmitted = TRUE`
	chronicOrder  = `admission_date DESC, id DESC`
	complexWhere  = `diabetes_med = TRUE AND num_diagnosis > 5 AND hospital_stay > 3`
	complexOrder  = `hospital_stay DESC, id DESC`
)

// HighRiskStats counts admissions with elevated HbA1c in the >=60 age group
// and averages their hospital stay. The HbA1c match ignores case because
// records created through the API are stored as sent.
func (db *DB) HighRiskStats(ctx context.Context) (models.HighRiskStats, error) {
	return guarded(ctx, db, "high_risk_stats", func(ctx context.Context) (models.HighRiskStats, error) {
		var stats models.HighRiskStats
		query := db.conn.Rebind(`
			SELECT COUNT(*) AS total_cases, AVG(hospital_stay) AS average_stay_duration
			FROM admissions
			WHERE ` + highRiskWhere)
		if err := db.conn.GetContext(ctx, &stats, query, models.HbA1cElevated, models.AgeGroupSenior); err != nil {
			return models.HighRiskStats{}, fmt.Errorf("failed to compute high-risk stats: %w", err)
		}
		return stats, nil
	})
}

// ChronicReadmissions returns one page of readmitted patients with more than
// five visits or more than twenty medications, newest admission first.
func (db *DB) ChronicReadmissions(ctx context.Context, limit, offset int) (models.Page[models.Admission], error) {
	return guarded(ctx, db, "chronic_readmissions", func(ctx context.Context) (models.Page[models.Admission], error) {
		return db.pageAdmissions(ctx, chronicWhere, chronicOrder, limit, offset)
	})
}

// ComplexClinical returns one page of medicated admissions with more than
// five diagnoses and a stay over three days, longest stay first.
func (db *DB) ComplexClinical(ctx context.Context, limit, offset int) (models.Page[models.Admission], error) {
	return guarded(ctx, db, "complex_clinical", func(ctx context.Context) (models.Page[models.Admission], error) {
		return db.pageAdmissions(ctx, complexWhere, complexOrder, limit, offset)
	})
}

func (db *DB) pageAdmissions(ctx context.Context, where, order string, limit, offset int) (models.Page[models.Admission], error) {
	page := models.Page[models.Admission]{Results: []models.Admission{}}

	if err := db.conn.GetContext(ctx, &page.Count, `SELECT COUNT(*) FROM admissions WHERE `+where); err != nil {
		return page, fmt.Errorf("failed to count admissions: %w", err)
	}
	if page.Count == 0 || offset < 0 || int64(offset) >= page.Count {
		return page, nil
	}

	query := db.conn.Rebind(`SELECT ` + selectColumns + ` FROM admissions WHERE ` + where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`)
	if err := db.conn.SelectContext(ctx, &page.Results, query, limit, offset); err != nil {
		return page, fmt.Errorf("failed to list admissions: %w", err)
	}
	return page, nil
}

// InsulinSummary groups readmitted admissions by insulin level, largest
// group first, ties broken by level name.
func (db *DB) InsulinSummary(ctx context.Context) ([]models.InsulinGroup, error) {
	return guarded(ctx, db, "insulin_summary", func(ctx context.Context) ([]models.InsulinGroup, error) {
		groups := []models.InsulinGroup{}
		err := db.conn.SelectContext(ctx, &groups, `
			SELECT insulin_level,
			       COUNT(*) AS patient_count,
			       AVG(num_medications) AS average_medication_count
			FROM admissions
			WHERE readmitted = TRUE
			GROUP BY insulin_level
			ORDER BY patient_count DESC, insulin_level ASC`)
		if err != nil {
			return nil, fmt.Errorf("failed to compute insulin summary: %w", err)
		}
		return groups, nil
	})
}

// GenderAnalysis aggregates the whole table by sex.
func (db *DB) GenderAnalysis(ctx context.Context) ([]models.GenderGroup, error) {
	return guarded(ctx, db, "gender_analysis", func(ctx context.Context) ([]models.GenderGroup, error) {
		groups := []models.GenderGroup{}
		err := db.conn.SelectContext(ctx, &groups, `
			SELECT sex,
			       COUNT(*) AS total_records,
			       AVG(hospital_stay) AS avg_stay,
			       AVG(num_diagnosis) AS avg_diagnosis_count
			FROM admissions
			GROUP BY sex
			ORDER BY sex ASC`)
		if err != nil {
			return nil, fmt.Errorf("failed to compute gender analysis: %w", err)
		}
		return groups, nil
	})
}
