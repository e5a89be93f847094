// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/logging"
)

// maxBodyBytes bounds the create request body.
const maxBodyBytes = 64 << 10

// CreateAdmission registers one admission.
//
// @Summary Create an admission
// @Description Stores one admission exactly as submitted. Every field is required; explicit false and 0 are valid.
// @Tags Admissions
// @Accept json
// @Produce json
// @Param admission body CreateAdmissionRequest true "Admission"
// @Success 201 {object} models.Admission "Stored admission with id"
// @Failure 400 {object} APIResponse "Validation failed"
// @Failure 500 {object} APIResponse "Database error"
// @Router /data/add/ [post]
func (h *Handler) CreateAdmission(w http.ResponseWriter, r *http.Request) {
	var req CreateAdmissionRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body could not be read", nil)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body is empty", nil)
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		if typeErr := fieldTypeErrors(body, err); typeErr != nil {
			apiErr := typeErr.ToAPIError()
			respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
			return
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body must be a JSON object", nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	admission, err := req.toAdmission()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "admission_date must be a valid date",
			map[string]any{"admission_date": err.Error()})
		return
	}

	if err := h.store.Create(r.Context(), &admission); err != nil {
		respondStoreError(w, r, "create", err)
		return
	}
	h.InvalidateReports()

	logging.Ctx(r.Context()).Info().
		Int64("admission_id", admission.ID).
		Str("admission", sanitizeLogValue(admission.String())).
		Msg("Admission created")

	if h.events != nil {
		if err := h.events.PublishCreated(r.Context(), admission); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to publish admission.created")
		}
	}

	respondJSON(w, http.StatusCreated, admission)
}
