// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package models

// HighRiskStats summarizes admissions with elevated HbA1c in the >=60 age
// group. AverageStayDuration is nil when TotalCases is 0.
type HighRiskStats struct {
	TotalCases          int64    `json:"total_cases" db:"total_cases"`
	AverageStayDuration *float64 `json:"average_stay_duration" db:"average_stay_duration"`
}

// InsulinGroup is one insulin level among readmitted patients.
type InsulinGroup struct {
	InsulinLevel           string   `json:"insulin_level" db:"insulin_level"`
	PatientCount           int64    `json:"patient_count" db:"patient_count"`
	AverageMedicationCount *float64 `json:"average_medication_count" db:"average_medication_count"`
}

// GenderGroup aggregates every admission with the same sex value.
type GenderGroup struct {
	Sex               string   `json:"sex" db:"sex"`
	TotalRecords      int64    `json:"total_records" db:"total_records"`
	AvgStay           *float64 `json:"avg_stay" db:"avg_stay"`
	AvgDiagnosisCount *float64 `json:"avg_diagnosis_count" db:"avg_diagnosis_count"`
}

// Page is one page of a filtered list plus the total match count.
type Page[T any] struct {
	Results []T
	Count   int64
}
