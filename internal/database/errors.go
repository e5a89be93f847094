// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/admissions/internal/logging"
)

var (
	// ErrNilDB is returned by methods called on a nil *DB.
	ErrNilDB = errors.New("database: not initialized")

	// ErrUnavailable is returned while the report circuit breaker is open.
	ErrUnavailable = errors.New("database: temporarily unavailable")

	// ErrNotFound is returned when a single-record lookup matches nothing.
	ErrNotFound = errors.New("database: record not found")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
