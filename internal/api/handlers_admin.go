// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
)

// ReloadResponse reports one CSV load.
type ReloadResponse struct {
	Source           string  `json:"source"`
	Loaded           int64   `json:"loaded"`
	Skipped          int64   `json:"skipped"`
	DurationMS       int64   `json:"duration_ms"`
	RecordsPerSecond float64 `json:"records_per_second"`
}

func reloadResponse(s *ingest.Stats) ReloadResponse {
	return ReloadResponse{
		Source:           s.Source,
		Loaded:           s.Loaded,
		Skipped:          s.Skipped,
		DurationMS:       s.Duration().Milliseconds(),
		RecordsPerSecond: s.RecordsPerSecond(),
	}
}

// ReloadAdmissions erases the store and loads the configured CSV again.
//
// @Summary Reload admissions from CSV
// @Description Runs the loader against import.source_path inside one transaction. Returns 409 while another load is running.
// @Tags Admin
// @Produce json
// @Success 200 {object} ReloadResponse
// @Failure 404 {object} APIResponse "Source file not found"
// @Failure 409 {object} APIResponse "Load already running"
// @Failure 500 {object} APIResponse "Load failed"
// @Security BearerAuth
// @Router /v1/admin/reload [post]
func (h *Handler) ReloadAdmissions(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Reload is not configured", nil)
		return
	}

	log := logging.Ctx(r.Context())
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		log.Info().Str("user", claims.Username).Str("source", h.sourcePath).Msg("Reload requested")
	}

	stats, err := h.loader.Run(r.Context(), h.sourcePath)
	switch {
	case err == nil:
		h.InvalidateReports()
		respondJSON(w, http.StatusOK, reloadResponse(stats))
	case errors.Is(err, ingest.ErrAlreadyRunning):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "A load is already running", nil)
	case errors.Is(err, ingest.ErrSourceNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Source file not found: "+h.sourcePath, nil)
	default:
		respondStoreError(w, r, "reload", err)
	}
}

// LastReload returns the most recent completed load.
//
// @Summary Last completed load
// @Tags Admin
// @Produce json
// @Success 200 {object} ReloadResponse
// @Failure 404 {object} APIResponse "No load recorded"
// @Security BearerAuth
// @Router /v1/admin/reload [get]
func (h *Handler) LastReload(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Reload is not configured", nil)
		return
	}

	stats, err := h.loader.LastRun(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read load history", nil)
		return
	}
	if stats == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No load recorded", nil)
		return
	}
	respondJSON(w, http.StatusOK, reloadResponse(stats))
}
