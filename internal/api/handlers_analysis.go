// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/admissions/internal/models"
)

// HighRiskStats reports admissions with elevated HbA1c aged 60 and over.
//
// @Summary High-risk demographic stats
// @Description Count and mean hospital stay of admissions with HbA1c ELEVATED (any case) and age group >=60. The mean is null when nothing matches.
// @Tags Analysis
// @Produce json
// @Success 200 {object} models.HighRiskStats
// @Failure 500 {object} APIResponse "Database error"
// @Failure 503 {object} APIResponse "Store unavailable"
// @Router /analysis/demographic-stats/ [get]
func (h *Handler) HighRiskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := cachedReport(r.Context(), h, "high_risk_stats", nil, func() (models.HighRiskStats, error) {
		return h.store.HighRiskStats(r.Context())
	})
	if err != nil {
		respondStoreError(w, r, "high_risk_stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ChronicReadmissions lists readmitted admissions with more than 5 visits
// or more than 20 medications, newest first.
//
// @Summary Chronic readmissions
// @Description Readmitted admissions with patient_visits > 5 or num_medications > 20, ordered by admission_date descending. 10 per page.
// @Tags Analysis
// @Produce json
// @Param page query string false "Page number or 'last'" default(1)
// @Success 200 {object} PaginatedResponse[models.Admission]
// @Failure 404 {object} APIResponse "Invalid page"
// @Failure 500 {object} APIResponse "Database error"
// @Router /analysis/chronic-readmissions/ [get]
func (h *Handler) ChronicReadmissions(w http.ResponseWriter, r *http.Request) {
	h.paginated(w, r, "chronic_readmissions", h.store.ChronicReadmissions)
}

// ComplexClinical lists admissions on diabetes medication with more than
// 5 diagnoses and a stay over 3 days, longest stay first.
//
// @Summary Complex clinical cases
// @Description Admissions with diabetes_med, num_diagnosis > 5 and hospital_stay > 3, ordered by hospital_stay descending. 10 per page.
// @Tags Analysis
// @Produce json
// @Param page query string false "Page number or 'last'" default(1)
// @Success 200 {object} PaginatedResponse[models.Admission]
// @Failure 404 {object} APIResponse "Invalid page"
// @Failure 500 {object} APIResponse "Database error"
// @Router /analysis/complex-clinical/ [get]
func (h *Handler) ComplexClinical(w http.ResponseWriter, r *http.Request) {
	h.paginated(w, r, "complex_clinical", h.store.ComplexClinical)
}

// InsulinSummary groups readmitted admissions by insulin level.
//
// @Summary Insulin medication summary
// @Description Readmitted admissions grouped by insulin_level with patient count and mean medication count, largest group first.
// @Tags Analysis
// @Produce json
// @Success 200 {array} models.InsulinGroup
// @Failure 500 {object} APIResponse "Database error"
// @Router /analysis/medication-insulin/ [get]
func (h *Handler) InsulinSummary(w http.ResponseWriter, r *http.Request) {
	groups, err := cachedReport(r.Context(), h, "insulin_summary", nil, func() ([]models.InsulinGroup, error) {
		return h.store.InsulinSummary(r.Context())
	})
	if err != nil {
		respondStoreError(w, r, "insulin_summary", err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// GenderAnalysis groups every admission by sex.
//
// @Summary Gender clinical analysis
// @Description All admissions grouped by sex with record count, mean stay and mean diagnosis count.
// @Tags Analysis
// @Produce json
// @Success 200 {array} models.GenderGroup
// @Failure 500 {object} APIResponse "Database error"
// @Router /analysis/gender-metrics/ [get]
func (h *Handler) GenderAnalysis(w http.ResponseWriter, r *http.Request) {
	groups, err := cachedReport(r.Context(), h, "gender_analysis", nil, func() ([]models.GenderGroup, error) {
		return h.store.GenderAnalysis(r.Context())
	})
	if err != nil {
		respondStoreError(w, r, "gender_analysis", err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

type pageQuery func(ctx context.Context, limit, offset int) (models.Page[models.Admission], error)

// paginated serves one page of a filtered admission list.
func (h *Handler) paginated(w http.ResponseWriter, r *http.Request, op string, uncached pageQuery) {
	query := func(ctx context.Context, limit, offset int) (models.Page[models.Admission], error) {
		return cachedReport(ctx, h, op, [2]int{limit, offset}, func() (models.Page[models.Admission], error) {
			return uncached(ctx, limit, offset)
		})
	}

	req, err := parsePage(r)
	if err != nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Invalid page.", nil)
		return
	}

	n := req.number
	if req.last {
		n = 1
	}

	page, err := query(r.Context(), PageSize, offset(n))
	if err != nil {
		respondStoreError(w, r, op, err)
		return
	}

	// The last page is only known once the first query returned the total.
	if req.last {
		if n = numPages(page.Count); n > 1 {
			if page, err = query(r.Context(), PageSize, offset(n)); err != nil {
				respondStoreError(w, r, op, err)
				return
			}
		}
	}

	resp, err := buildPage(r, n, page)
	if err != nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Invalid page.", nil)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
