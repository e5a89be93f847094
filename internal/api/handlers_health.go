// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/admissions/internal/logging"
)

const readyTimeout = 2 * time.Second

// HealthStatus is the body of both health checks.
type HealthStatus struct {
	Status         string  `json:"status"`
	Uptime         float64 `json:"uptime_seconds"`
	StoreReachable *bool   `json:"store_reachable,omitempty"`
}

// HealthLive handles liveness check requests
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness check requests
// Returns 200 OK only if the admission store answers a ping
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus "Ready"
// @Failure 503 {object} HealthStatus "Store unreachable"
// @Router /v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	reachable := h.store != nil && h.store.Ping(ctx) == nil

	status, code := "ready", http.StatusOK
	if !reachable {
		status, code = "not_ready", http.StatusServiceUnavailable
		logging.Ctx(r.Context()).Warn().Msg("Readiness check failed: store unreachable")
	}

	respondJSON(w, code, HealthStatus{
		Status:         status,
		Uptime:         time.Since(h.startTime).Seconds(),
		StoreReachable: &reachable,
	})
}
