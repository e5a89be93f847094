// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/admissions/internal/models"
)

func TestHighRiskStats_Empty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.HighRiskStats(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "total_cases", stats.TotalCases, 0)
	checkNilAvg(t, "average_stay_duration", stats.AverageStayDuration)
}

func TestHighRiskStats_MatchesElevatedSeniors(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		newAdmission(func(a *models.Admission) { a.HbA1c = "ELEVATED"; a.AgeGroup = ">=60"; a.HospitalStay = 4 }),
		newAdmission(func(a *models.Admission) { a.HbA1c = "elevated"; a.AgeGroup = ">=60"; a.HospitalStay = 7 }),
		newAdmission(func(a *models.Admission) { a.HbA1c = "ELEVATED"; a.AgeGroup = "30-60"; a.HospitalStay = 100 }),
		newAdmission(func(a *models.Admission) { a.HbA1c = "NORMAL"; a.AgeGroup = ">=60"; a.HospitalStay = 100 }),
	)

	stats, err := db.HighRiskStats(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "total_cases", stats.TotalCases, 2)
	checkAvg(t, "average_stay_duration", stats.AverageStayDuration, 5.5)
}

func TestChronicReadmissions_FilterAndOrder(t *testing.T) {
	db := setupTestDB(t)
	rows := seed(t, db,
		// matches on visits
		newAdmission(func(a *models.Admission) {
			a.Readmitted = true
			a.PatientVisits = 6
			a.AdmissionDate = models.NewDate(2024, time.March, 1)
		}),
		// matches on medications, same date as the next one
		newAdmission(func(a *models.Admission) {
			a.Readmitted = true
			a.NumMedications = 21
			a.AdmissionDate = models.NewDate(2024, time.May, 1)
		}),
		newAdmission(func(a *models.Admission) {
			a.Readmitted = true
			a.NumMedications = 30
			a.AdmissionDate = models.NewDate(2024, time.May, 1)
		}),
		// boundary values do not match
		newAdmission(func(a *models.Admission) { a.Readmitted = true; a.PatientVisits = 5; a.NumMedications = 20 }),
		// not readmitted
		newAdmission(func(a *models.Admission) { a.PatientVisits = 50 }),
	)

	page, err := db.ChronicReadmissions(context.Background(), 10, 0)
	checkNoError(t, err)
	checkInt64Equal(t, "count", page.Count, 3)
	checkLen(t, "results", len(page.Results), 3)

	want := []int64{rows[2].ID, rows[1].ID, rows[0].ID}
	for i, id := range want {
		checkInt64Equal(t, "result id", page.Results[i].ID, id)
	}
}

func TestChronicReadmissions_Pagination(t *testing.T) {
	db := setupTestDB(t)
	start := models.NewDate(2023, time.January, 1)
	batch := make([]models.Admission, 23)
	for i := range batch {
		batch[i] = newAdmission(func(a *models.Admission) {
			a.Readmitted = true
			a.PatientVisits = 10
			a.AdmissionDate = models.Date{Time: start.AddDate(0, 0, i)}
		})
	}
	seed(t, db, batch...)

	ctx := context.Background()
	third, err := db.ChronicReadmissions(ctx, 10, 20)
	checkNoError(t, err)
	checkInt64Equal(t, "count", third.Count, 23)
	checkLen(t, "third page", len(third.Results), 3)
	checkStringEqual(t, "oldest last", third.Results[2].AdmissionDate.String(), "2023-01-01")

	past, err := db.ChronicReadmissions(ctx, 10, 30)
	checkNoError(t, err)
	checkInt64Equal(t, "count", past.Count, 23)
	checkLen(t, "past the end", len(past.Results), 0)

	negative, err := db.ChronicReadmissions(ctx, 10, -10)
	checkNoError(t, err)
	checkInt64Equal(t, "count", negative.Count, 23)
	checkLen(t, "negative offset", len(negative.Results), 0)
}

func TestComplexClinical_FilterAndOrder(t *testing.T) {
	db := setupTestDB(t)
	rows := seed(t, db,
		newAdmission(func(a *models.Admission) { a.DiabetesMed = true; a.NumDiagnosis = 6; a.HospitalStay = 4 }),
		newAdmission(func(a *models.Admission) { a.DiabetesMed = true; a.NumDiagnosis = 9; a.HospitalStay = 10 }),
		newAdmission(func(a *models.Admission) { a.DiabetesMed = true; a.NumDiagnosis = 9; a.HospitalStay = 4 }),
		newAdmission(func(a *models.Admission) { a.DiabetesMed = true; a.NumDiagnosis = 5; a.HospitalStay = 10 }),
		newAdmission(func(a *models.Admission) { a.DiabetesMed = true; a.NumDiagnosis = 9; a.HospitalStay = 3 }),
		newAdmission(func(a *models.Admission) { a.DiabetesMed = false; a.NumDiagnosis = 9; a.HospitalStay = 10 }),
	)

	page, err := db.ComplexClinical(context.Background(), 10, 0)
	checkNoError(t, err)
	checkInt64Equal(t, "count", page.Count, 3)
	checkLen(t, "results", len(page.Results), 3)

	want := []int64{rows[1].ID, rows[2].ID, rows[0].ID}
	for i, id := range want {
		checkInt64Equal(t, "result id", page.Results[i].ID, id)
	}
}

func TestInsulinSummary(t *testing.T) {
	db := setupTestDB(t)
	readmit := func(level string, meds int) models.Admission {
		return newAdmission(func(a *models.Admission) {
			a.Readmitted = true
			a.InsulinLevel = level
			a.NumMedications = meds
		})
	}
	seed(t, db,
		readmit("UP", 10), readmit("UP", 20),
		readmit("DOWN", 4), readmit("DOWN", 6),
		readmit("STEADY", 1),
		newAdmission(func(a *models.Admission) { a.InsulinLevel = "NO" }),
	)

	groups, err := db.InsulinSummary(context.Background())
	checkNoError(t, err)
	checkLen(t, "groups", len(groups), 3)

	checkStringEqual(t, "first", groups[0].InsulinLevel, "DOWN")
	checkInt64Equal(t, "DOWN count", groups[0].PatientCount, 2)
	checkAvg(t, "DOWN avg", groups[0].AverageMedicationCount, 5)

	checkStringEqual(t, "second", groups[1].InsulinLevel, "UP")
	checkAvg(t, "UP avg", groups[1].AverageMedicationCount, 15)

	checkStringEqual(t, "third", groups[2].InsulinLevel, "STEADY")
	checkInt64Equal(t, "STEADY count", groups[2].PatientCount, 1)
}

func TestInsulinSummary_Empty(t *testing.T) {
	db := setupTestDB(t)
	groups, err := db.InsulinSummary(context.Background())
	checkNoError(t, err)
	if groups == nil {
		t.Error("empty summary should be an empty slice, not nil")
	}
	checkLen(t, "groups", len(groups), 0)
}

func TestGenderAnalysis(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db,
		newAdmission(func(a *models.Admission) { a.Sex = "MALE"; a.HospitalStay = 2; a.NumDiagnosis = 4 }),
		newAdmission(func(a *models.Admission) { a.Sex = "MALE"; a.HospitalStay = 4; a.NumDiagnosis = 8 }),
		newAdmission(func(a *models.Admission) { a.Sex = "FEMALE"; a.HospitalStay = 3; a.NumDiagnosis = 1 }),
		newAdmission(func(a *models.Admission) { a.Sex = "female"; a.HospitalStay = 9; a.NumDiagnosis = 9 }),
	)

	groups, err := db.GenderAnalysis(context.Background())
	checkNoError(t, err)
	checkLen(t, "groups", len(groups), 3)

	checkStringEqual(t, "first", groups[0].Sex, "FEMALE")
	checkStringEqual(t, "second", groups[1].Sex, "MALE")
	checkInt64Equal(t, "MALE total", groups[1].TotalRecords, 2)
	checkAvg(t, "MALE avg_stay", groups[1].AvgStay, 3)
	checkAvg(t, "MALE avg_diagnosis_count", groups[1].AvgDiagnosisCount, 6)
	checkStringEqual(t, "third", groups[2].Sex, "female")

	total, err := db.CountAdmissions(context.Background())
	checkNoError(t, err)
	var sum int64
	for _, g := range groups {
		sum += g.TotalRecords
	}
	checkInt64Equal(t, "sum of group totals", sum, total)
}
