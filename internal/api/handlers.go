// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tomtom215/admissions/internal/audit"
	"github.com/tomtom215/admissions/internal/cache"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/models"
	"github.com/tomtom215/admissions/internal/websocket"
)

// AdmissionStore is the part of database.DB the handlers use.
type AdmissionStore interface {
	Create(ctx context.Context, a *models.Admission) error
	HighRiskStats(ctx context.Context) (models.HighRiskStats, error)
	ChronicReadmissions(ctx context.Context, limit, offset int) (models.Page[models.Admission], error)
	ComplexClinical(ctx context.Context, limit, offset int) (models.Page[models.Admission], error)
	InsulinSummary(ctx context.Context) ([]models.InsulinGroup, error)
	GenderAnalysis(ctx context.Context) ([]models.GenderGroup, error)
	Ping(ctx context.Context) error
}

// DataVersioner reports a counter that moves on every committed write to
// the store, including writes by other processes. Optional.
type DataVersioner interface {
	DataVersion(ctx context.Context) (int64, error)
}

// EventPublisher receives admission.created events. Optional.
type EventPublisher interface {
	PublishCreated(ctx context.Context, a models.Admission) error
}

// Loader runs CSV reloads for the admin endpoint. Optional.
type Loader interface {
	Run(ctx context.Context, path string) (*ingest.Stats, error)
	IsRunning() bool
	LastRun(ctx context.Context) (*ingest.Stats, error)
}

// AuditReader serves the audit trail endpoint. Optional.
type AuditReader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_admissions.go: create
//   - handlers_analysis.go: the five reports
//   - handlers_health.go: liveness and readiness
//   - handlers_admin.go: CSV reload
//   - handlers_audit.go: audit trail
//   - handlers_stream.go: live event feed
type Handler struct {
	store      AdmissionStore
	events     EventPublisher
	loader     Loader
	auditLog   AuditReader
	hub        *websocket.Hub
	wsOrigins  []string
	sourcePath string
	startTime  time.Time

	// reports caches report results. generation moves on each write made
	// through this handler and versions, when set, tracks writes made
	// elsewhere. Both are part of every key, so a result computed before a
	// write is never served after it.
	reports    *cache.Cache[any]
	generation atomic.Uint64
	versions   DataVersioner
}

// NewHandler creates a handler over store.
func NewHandler(store AdmissionStore) *Handler {
	return &Handler{
		store:     store,
		startTime: time.Now(),
	}
}

// SetEventPublisher enables admission.created events.
func (h *Handler) SetEventPublisher(p EventPublisher) {
	h.events = p
}

// SetLoader enables the reload endpoint for the CSV at sourcePath.
func (h *Handler) SetLoader(l Loader, sourcePath string) {
	h.loader = l
	h.sourcePath = sourcePath
}

// SetAuditReader enables the audit trail endpoint.
func (h *Handler) SetAuditReader(a AuditReader) {
	h.auditLog = a
}

// SetEventStream enables the websocket feed on hub. Browser connections
// must come from one of origins; "*" allows any.
func (h *Handler) SetEventStream(hub *websocket.Hub, origins []string) {
	h.hub = hub
	h.wsOrigins = origins
}

// SetReportCache enables caching of report results in c.
func (h *Handler) SetReportCache(c *cache.Cache[any]) {
	h.reports = c
}

// SetDataVersion keys cached reports on the store's data version, so loads
// run by another process (cmd/loader against a shared Postgres) invalidate
// them too.
func (h *Handler) SetDataVersion(v DataVersioner) {
	h.versions = v
}

// InvalidateReports drops every cached report. It is called after each
// write to the admission table.
func (h *Handler) InvalidateReports() {
	h.generation.Add(1)
	if h.reports != nil {
		h.reports.Clear()
	}
}

// cachedReport returns the cached result for op and params, or runs load
// and caches its result on success. When the data version cannot be read
// the cache is bypassed.
func cachedReport[T any](ctx context.Context, h *Handler, op string, params any, load func() (T, error)) (T, error) {
	if h.reports == nil {
		return load()
	}

	version := strconv.FormatUint(h.generation.Load(), 10)
	if h.versions != nil {
		v, err := h.versions.DataVersion(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("report", op).Msg("Data version unavailable, skipping report cache")
			return load()
		}
		version += "." + strconv.FormatInt(v, 10)
	}

	key := cache.GenerateKey(op+"@"+version, params)
	if v, ok := h.reports.Get(key); ok {
		if result, ok := v.(T); ok {
			return result, nil
		}
	}

	result, err := load()
	if err != nil {
		return result, err
	}
	h.reports.Set(key, result)
	return result, nil
}
