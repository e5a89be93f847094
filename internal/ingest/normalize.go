// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/admissions/internal/models"
)

// Source column names. The CSV header uses these spellings.
const (
	ColDate           = "date"
	ColRace           = "race"
	ColSex            = "sex"
	ColAge            = "age"
	ColHospitalStay   = "hospital_stay"
	ColHbA1c          = "HbA1c"
	ColDiabetesMed    = "diabetesMed"
	ColAdmitSource    = "admit_source"
	ColPatientVisits  = "patient_visits"
	ColNumMedications = "num_medications"
	ColNumDiagnosis   = "num_diagnosis"
	ColInsulinLevel   = "insulin_level"
	ColReadmitted     = "readmitted"
)

// Row maps column name to raw cell text. A key that is missing means the
// column is absent from the source, which is different from an empty cell.
type Row map[string]string

// Result is the outcome of normalizing one row: a Record when Err is nil.
type Result struct {
	Record models.Admission
	Err    error
	Line   int
}

// OK reports whether the row produced a record.
func (r Result) OK() bool {
	return r.Err == nil
}

func (r Row) get(key, fallback string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return fallback
}

// Normalize converts one raw row into an Admission. Absent columns take
// defaults; present but malformed values make the row fail.
func Normalize(row Row) Result {
	var (
		a   models.Admission
		err error
	)

	categoricals := []struct {
		col      string
		fallback string
		maxLen   int
		dst      *string
	}{
		{ColSex, models.DefaultUnknown, models.MaxSexLen, &a.Sex},
		{ColRace, models.DefaultUnknown, models.MaxRaceLen, &a.Race},
		{ColHbA1c, models.DefaultHbA1c, models.MaxHbA1cLen, &a.HbA1c},
		{ColInsulinLevel, models.DefaultInsulin, models.MaxInsulinLevelLen, &a.InsulinLevel},
		{ColAdmitSource, models.DefaultUnknown, models.MaxAdmitSourceLen, &a.AdmitSource},
	}
	for _, c := range categoricals {
		v := strings.ToUpper(strings.TrimSpace(row.get(c.col, c.fallback)))
		if utf8.RuneCountInString(v) > c.maxLen {
			return fail(c.col, "longer than %d characters", c.maxLen)
		}
		*c.dst = v
	}

	a.AgeGroup = cleanAge(row.get(ColAge, models.DefaultUnknown))
	if utf8.RuneCountInString(a.AgeGroup) > models.MaxAgeGroupLen {
		return fail(ColAge, "longer than %d characters", models.MaxAgeGroupLen)
	}

	a.DiabetesMed = yes(row.get(ColDiabetesMed, "no"))
	a.Readmitted = yes(row.get(ColReadmitted, "no"))

	// The date is parsed as-is; surrounding whitespace is a format error.
	if a.AdmissionDate, err = models.ParseDate(row.get(ColDate, models.DefaultDateText)); err != nil {
		return fail(ColDate, "not a YYYY-MM-DD date")
	}

	counts := []struct {
		col string
		dst *int
	}{
		{ColHospitalStay, &a.HospitalStay},
		{ColPatientVisits, &a.PatientVisits},
		{ColNumMedications, &a.NumMedications},
		{ColNumDiagnosis, &a.NumDiagnosis},
	}
	for _, c := range counts {
		n, err := strconv.Atoi(strings.TrimSpace(row.get(c.col, "0")))
		if err != nil {
			return fail(c.col, "not an integer")
		}
		if n < 0 {
			return fail(c.col, "negative")
		}
		*c.dst = n
	}

	return Result{Record: a}
}

// cleanAge turns "[>= 60 years]"-style tokens into ">=60".
func cleanAge(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "years", "")
	return strings.ReplaceAll(s, " ", "")
}

func yes(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == "yes"
}

func fail(field, format string, args ...any) Result {
	return Result{Err: &RowError{Field: field, Reason: fmt.Sprintf(format, args...)}}
}
