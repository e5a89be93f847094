// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package models defines the admission record and the report shapes returned
by the analysis endpoints.

Database Model:

  - Admission: one hospital stay; a flat, single-table record

Report Models:

  - HighRiskStats: count and mean stay for elevated-HbA1c seniors
  - InsulinGroup: readmitted patients per insulin level
  - GenderGroup: whole-table aggregates per sex
  - Page: one page of a filtered admission list

JSON field names are snake_case and match the column names used by the
store, so the same struct tags serve encoding and row scanning.

Averages are *float64: a nil pointer encodes as null and means the average
was taken over an empty set.
*/
package models
