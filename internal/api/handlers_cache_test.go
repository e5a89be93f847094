// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/admissions/internal/cache"
	"github.com/tomtom215/admissions/internal/models"
)

// countingStore counts report queries that reach the store.
type countingStore struct {
	AdmissionStore
	queries atomic.Int32
}

func (s *countingStore) GenderAnalysis(ctx context.Context) ([]models.GenderGroup, error) {
	s.queries.Add(1)
	return s.AdmissionStore.GenderAnalysis(ctx)
}

func (s *countingStore) ChronicReadmissions(ctx context.Context, limit, offset int) (models.Page[models.Admission], error) {
	s.queries.Add(1)
	return s.AdmissionStore.ChronicReadmissions(ctx, limit, offset)
}

func newCachedHandler(t *testing.T) (*Handler, *countingStore) {
	t.Helper()
	store := &countingStore{AdmissionStore: setupTestDB(t)}
	reports := cache.New[any](time.Minute)
	t.Cleanup(reports.Close)

	h := NewHandler(store)
	h.SetReportCache(reports)
	return h, store
}

func TestReportCache_ServesRepeatsFromCache(t *testing.T) {
	t.Parallel()

	h, store := newCachedHandler(t)
	srv := newTestServer(h)

	for i := 0; i < 3; i++ {
		checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", ""), http.StatusOK)
	}
	if got := store.queries.Load(); got != 1 {
		t.Errorf("store queries = %d, want 1", got)
	}
}

func TestReportCache_CreateInvalidates(t *testing.T) {
	t.Parallel()

	h, store := newCachedHandler(t)
	srv := newTestServer(h)

	rec := doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", "")
	if groups := decodeBody[[]models.GenderGroup](t, rec); len(groups) != 0 {
		t.Fatalf("groups = %+v, want none", groups)
	}

	checkStatus(t, doRequest(t, srv, http.MethodPost, "/api/data/add/", validCreateBody), http.StatusCreated)

	rec = doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", "")
	groups := decodeBody[[]models.GenderGroup](t, rec)
	if len(groups) != 1 || groups[0].TotalRecords != 1 {
		t.Errorf("groups after create = %+v, want the new record", groups)
	}
	if got := store.queries.Load(); got != 2 {
		t.Errorf("store queries = %d, want 2", got)
	}
}

func TestReportCache_PagesCachedSeparately(t *testing.T) {
	t.Parallel()

	h, store := newCachedHandler(t)
	srv := newTestServer(h)

	checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/chronic-readmissions/", ""), http.StatusOK)
	checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/chronic-readmissions/?page=1", ""), http.StatusOK)
	checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/chronic-readmissions/?page=last", ""), http.StatusOK)
	if got := store.queries.Load(); got != 1 {
		t.Errorf("store queries = %d, want 1", got)
	}

	h.InvalidateReports()
	checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/chronic-readmissions/", ""), http.StatusOK)
	if got := store.queries.Load(); got != 2 {
		t.Errorf("store queries after invalidate = %d, want 2", got)
	}
}

func TestReportCache_WriteOutsideHandlerInvalidates(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	reports := cache.New[any](time.Minute)
	t.Cleanup(reports.Close)

	h := NewHandler(db)
	h.SetReportCache(reports)
	h.SetDataVersion(db)
	srv := newTestServer(h)

	rec := doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", "")
	if groups := decodeBody[[]models.GenderGroup](t, rec); len(groups) != 0 {
		t.Fatalf("groups = %+v, want none", groups)
	}

	// Another process writing to the same store, such as cmd/loader.
	seedAdmissions(t, db, baseAdmission())

	rec = doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", "")
	groups := decodeBody[[]models.GenderGroup](t, rec)
	if len(groups) != 1 || groups[0].TotalRecords != 1 {
		t.Errorf("groups after outside write = %+v, want the new record", groups)
	}
}

type failingVersions struct{}

func (failingVersions) DataVersion(context.Context) (int64, error) {
	return 0, errors.New("version table missing")
}

func TestReportCache_VersionErrorBypassesCache(t *testing.T) {
	t.Parallel()

	h, store := newCachedHandler(t)
	h.SetDataVersion(failingVersions{})
	srv := newTestServer(h)

	for i := 0; i < 2; i++ {
		checkStatus(t, doRequest(t, srv, http.MethodGet, "/api/analysis/gender-metrics/", ""), http.StatusOK)
	}
	if got := store.queries.Load(); got != 2 {
		t.Errorf("store queries = %d, want 2", got)
	}
}
