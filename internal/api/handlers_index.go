// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import "net/http"

// Endpoint describes one route in the index.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []Endpoint{
	{http.MethodPost, "/api/data/add/", "Register a new admission"},
	{http.MethodGet, "/api/analysis/demographic-stats/", "High-risk senior admissions: count and mean stay"},
	{http.MethodGet, "/api/analysis/chronic-readmissions/", "Readmitted chronic patients, paginated"},
	{http.MethodGet, "/api/analysis/medication-insulin/", "Readmissions grouped by insulin level"},
	{http.MethodGet, "/api/analysis/complex-clinical/", "Complex clinical cases, paginated"},
	{http.MethodGet, "/api/analysis/gender-metrics/", "Clinical summary by sex"},
}

// Index lists the admission endpoints.
//
// @Summary Endpoint index
// @Tags Core
// @Produce json
// @Success 200 {array} Endpoint
// @Router / [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, endpoints)
}
