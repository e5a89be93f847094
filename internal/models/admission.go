// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package models

import "fmt"

// Admission is one hospital stay.
//
// Records loaded from CSV have upper-cased categorical fields. Records
// created through the API are stored exactly as submitted.
type Admission struct {
	ID             int64  `json:"id" db:"id"`
	AdmissionDate  Date   `json:"admission_date" db:"admission_date"`
	Race           string `json:"race" db:"race"`
	Sex            string `json:"sex" db:"sex"`
	AgeGroup       string `json:"age_group" db:"age_group"`
	HospitalStay   int    `json:"hospital_stay" db:"hospital_stay"`
	HbA1c          string `json:"hba1c" db:"hba1c"`
	DiabetesMed    bool   `json:"diabetes_med" db:"diabetes_med"`
	AdmitSource    string `json:"admit_source" db:"admit_source"`
	PatientVisits  int    `json:"patient_visits" db:"patient_visits"`
	NumMedications int    `json:"num_medications" db:"num_medications"`
	NumDiagnosis   int    `json:"num_diagnosis" db:"num_diagnosis"`
	InsulinLevel   string `json:"insulin_level" db:"insulin_level"`
	Readmitted     bool   `json:"readmitted" db:"readmitted"`
}

// String matches the short label used in logs: "SEX | AGE | DATE".
func (a Admission) String() string {
	return fmt.Sprintf("%s | %s | %s", a.Sex, a.AgeGroup, a.AdmissionDate)
}

// Column length limits for the categorical fields.
const (
	MaxRaceLen         = 20
	MaxSexLen          = 10
	MaxAgeGroupLen     = 20
	MaxHbA1cLen        = 20
	MaxAdmitSourceLen  = 20
	MaxInsulinLevelLen = 20
)

// Categorical values matched by the analysis queries, and the defaults the
// loader substitutes for absent CSV columns.
const (
	HbA1cElevated  = "ELEVATED"
	AgeGroupSenior = ">=60"

	DefaultUnknown  = "UNKNOWN"
	DefaultHbA1c    = "NONE"
	DefaultInsulin  = "STEADY"
	DefaultDateText = "2000-01-01"
)
