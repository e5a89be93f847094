// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `date,race,sex,age,hospital_stay,HbA1c,diabetesMed,admit_source,patient_visits,num_medications,num_diagnosis,insulin_level,readmitted
2024-01-05,Caucasian,Female,>= 60 years,4,Elevated,Yes,Emergency,2,14,7,Up,No
2024-01-06,AfricanAmerican,Male,30-60 years,2,None,No,Referral,0,8,3,Steady,Yes
not-a-date,Caucasian,Male,<30,1,None,No,Referral,0,3,1,No,No
2024-01-07,Asian,Female,<30,-3,None,No,Referral,0,3,1,No,No
`

// setupLoaderEnv points the loader at a fresh DuckDB file and returns the
// directory holding it.
func setupLoaderEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DUCKDB_PATH", filepath.Join(dir, "admissions.duckdb"))
	t.Setenv("DUCKDB_THREADS", "1")
	t.Setenv("IMPORT_PROGRESS_PATH", "")
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "absent.yaml"))
	t.Setenv("DOTENV_PATH", filepath.Join(dir, "absent.env"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestRun_LoadsAndReports(t *testing.T) {
	dir := setupLoaderEnv(t)
	source := filepath.Join(dir, "final_readmit_df.csv")
	if err := os.WriteFile(source, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	t.Setenv("IMPORT_SOURCE_PATH", source)

	var out bytes.Buffer
	if code := run(context.Background(), &out); code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}

	got := out.String()
	for _, want := range []string{
		"--- Erasing old database records ---",
		"--- Starting data load from " + source + " ---",
		"SUCCESS: 2 records loaded.",
		"SKIPPED: 2 records due to formatting errors.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, rule) != 2 {
		t.Errorf("expected the summary between two rules:\n%s", got)
	}
}

func TestRun_MissingFile(t *testing.T) {
	dir := setupLoaderEnv(t)
	missing := filepath.Join(dir, "final_readmit_df.csv")
	t.Setenv("IMPORT_SOURCE_PATH", missing)

	var out bytes.Buffer
	if code := run(context.Background(), &out); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	want := "ERROR: Could not find " + missing + ". Ensure it is in the root project folder.\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_BatchProgress(t *testing.T) {
	dir := setupLoaderEnv(t)
	source := filepath.Join(dir, "final_readmit_df.csv")

	var b strings.Builder
	b.WriteString("date,sex,age\n")
	for i := 0; i < 5; i++ {
		b.WriteString("2024-02-01,Male,>60\n")
	}
	if err := os.WriteFile(source, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	t.Setenv("IMPORT_SOURCE_PATH", source)
	t.Setenv("IMPORT_BATCH_SIZE", "2")

	var out bytes.Buffer
	if code := run(context.Background(), &out); code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"Progress: 2 records loaded...", "Progress: 4 records loaded...", "SUCCESS: 5 records loaded."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
