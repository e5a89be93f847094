// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/admissions/internal/audit"
	"github.com/tomtom215/admissions/internal/logging"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditResponse is one page of the audit trail.
type AuditResponse struct {
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Events []audit.Event `json:"events"`
}

// AuditEvents lists audit events, newest first.
//
// @Summary List audit events
// @Description Returns recorded creates, reloads and refused requests, newest first.
// @Tags Admin
// @Produce json
// @Param type query string false "Event type" Enums(admission.created, admissions.reloaded, auth.failure, authz.denied)
// @Param actor query string false "Username, system or anonymous"
// @Param since query string false "RFC 3339 lower bound"
// @Param limit query int false "Page size (1-1000, default 100)"
// @Param offset query int false "Events to skip"
// @Success 200 {object} AuditResponse
// @Failure 400 {object} APIResponse "Invalid filter"
// @Failure 503 {object} APIResponse "Audit trail disabled"
// @Security BearerAuth
// @Router /v1/admin/audit [get]
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.auditLog == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Audit trail is not enabled", nil)
		return
	}

	filter, details := parseAuditFilter(r)
	if len(details) > 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid audit filter", details)
		return
	}

	ctx := r.Context()
	total, err := h.auditLog.Count(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Audit count failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to read audit trail", nil)
		return
	}
	events, err := h.auditLog.Query(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Audit query failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to read audit trail", nil)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	respondJSON(w, http.StatusOK, AuditResponse{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Events: events,
	})
}

func parseAuditFilter(r *http.Request) (audit.QueryFilter, map[string]any) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Type:  audit.EventType(q.Get("type")),
		Actor: q.Get("actor"),
		Limit: defaultAuditLimit,
	}
	details := map[string]any{}

	if filter.Type != "" && !audit.ValidEventType(filter.Type) {
		details["type"] = "Unknown event type."
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			details["since"] = "Enter a valid RFC 3339 timestamp."
		}
		filter.Since = since
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxAuditLimit {
			details["limit"] = "Ensure this value is between 1 and 1000."
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details["offset"] = "Ensure this value is greater than or equal to 0."
		}
		filter.Offset = n
	}
	return filter, details
}
