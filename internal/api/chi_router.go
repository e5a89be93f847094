// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/authz"
	"github.com/tomtom215/admissions/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router. authn and authzMW may be nil, which leaves
// every route open.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found.", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method \""+r.Method+"\" not allowed.", nil)
	})

	r.Get("/", h.Index)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Admission data and reports.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		router.protect(r)

		r.Post("/api/data/add/", h.CreateAdmission)

		r.Get("/api/analysis/demographic-stats/", h.HighRiskStats)
		r.Get("/api/analysis/chronic-readmissions/", h.ChronicReadmissions)
		r.Get("/api/analysis/medication-insulin/", h.InsulinSummary)
		r.Get("/api/analysis/complex-clinical/", h.ComplexClinical)
		r.Get("/api/analysis/gender-metrics/", h.GenderAnalysis)

		r.Post("/api/v1/admin/reload", h.ReloadAdmissions)
		r.Get("/api/v1/admin/reload", h.LastReload)
		r.Get("/api/v1/admin/audit", h.AuditEvents)
	})

	// The websocket upgrade needs the raw connection, so it skips the
	// rate limiter and metrics writer.
	r.Group(func(r chi.Router) {
		router.protect(r)
		r.Get("/api/v1/events/ws", h.EventStream)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}

// protect installs authentication and authorization when enabled.
func (router *Router) protect(r chi.Router) {
	if router.authn == nil || !router.authn.Enabled() {
		return
	}
	r.Use(router.authn.Authenticate)
	if router.authz != nil {
		r.Use(router.authz.AuthorizeRequest)
	}
}
