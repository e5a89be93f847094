// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSourceNotFound is returned when the CSV file does not exist. The
	// store is not touched.
	ErrSourceNotFound = errors.New("ingest: source file not found")

	// ErrAlreadyRunning is returned when Run is called while another run
	// on the same Pipeline is in progress.
	ErrAlreadyRunning = errors.New("ingest: load already in progress")
)

// Stats holds the outcome of a completed load.
type Stats struct {
	Source    string    `json:"source"`
	Loaded    int64     `json:"loaded"`
	Skipped   int64     `json:"skipped"`
	Batches   int       `json:"batches"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the wall time of the load.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RecordsPerSecond returns the load rate.
func (s *Stats) RecordsPerSecond() float64 {
	secs := s.Duration().Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.Loaded) / secs
}

// RowError describes why one source row was skipped.
type RowError struct {
	Line   int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
}
