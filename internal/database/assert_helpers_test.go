// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"math"
	"testing"
)

// Assertion helpers use the "check" prefix and t.Helper() so failures point
// at the calling line.

// checkNoError fails the test if err is not nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkError fails the test if err is nil
func checkError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// checkStringEqual checks that got equals want
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkInt64Equal checks that got equals want
func checkInt64Equal(t *testing.T, fieldName string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkLen checks a slice length
func checkLen(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: expected length %d, got %d", name, want, got)
	}
}

// checkAvg checks a nullable average to within 1e-9.
func checkAvg(t *testing.T, fieldName string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: expected %v, got null", fieldName, want)
		return
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", fieldName, want, *got)
	}
}

// checkNilAvg checks that a nullable average is null.
func checkNilAvg(t *testing.T, fieldName string, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("%s: expected null, got %v", fieldName, *got)
	}
}
