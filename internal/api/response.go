// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/database"
	"github.com/tomtom215/admissions/internal/logging"
)

// APIResponse is the error envelope. Report endpoints return their bare
// documents on success.
type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details maps field names to messages for validation errors
	Details map[string]any `json:"details,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	respondJSON(w, status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: &APIMeta{
			RequestID: logging.RequestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	})
}

// WriteError matches auth.ErrorWriter so authentication and authorization
// failures use the same envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondError(w, r, status, code, message, nil)
}

// respondStoreError maps a store failure to 503 while the circuit breaker
// is open and to 500 otherwise.
func respondStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, database.ErrUnavailable) {
		logging.Ctx(r.Context()).Warn().Err(err).Str("operation", op).Msg("Store unavailable")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"The admission store is temporarily unavailable", nil)
		return
	}

	logging.Ctx(r.Context()).Error().Str("operation", op).Str("error", sanitizeLogValue(err.Error())).Msg("Database error")
	respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred", nil)
}

// sanitizeLogValue escapes control characters so request-derived text
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
