// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/database"
	"github.com/tomtom215/admissions/internal/models"
)

var testDBSemaphore = make(chan struct{}, 4)

// setupTestDB opens an in-memory DuckDB store closed at test end.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{
		Driver:       config.DriverDuckDB,
		Path:         ":memory:",
		MaxMemory:    "1GB",
		Threads:      1,
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestServer routes requests for handler with rate limiting off and no
// authentication.
func newTestServer(h *Handler) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, NewChiMiddleware(cfg), nil, nil).Setup()
}

func doRequest(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) *APIError {
	t.Helper()
	checkStatus(t, rec, wantStatus)
	resp := decodeBody[APIResponse](t, rec)
	if resp.Success {
		t.Error("success = true on error response")
	}
	if resp.Error == nil {
		t.Fatalf("missing error object: %s", rec.Body.String())
	}
	if resp.Error.Code != wantCode {
		t.Errorf("error code = %q, want %q", resp.Error.Code, wantCode)
	}
	return resp.Error
}

func checkFloatPtr(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = null, want %v", name, want)
		return
	}
	if diff := *got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

// baseAdmission matches no report filter.
func baseAdmission(mods ...func(*models.Admission)) models.Admission {
	a := models.Admission{
		AdmissionDate:  models.NewDate(2024, time.March, 1),
		Race:           "CAUCASIAN",
		Sex:            "FEMALE",
		AgeGroup:       "30-60",
		HospitalStay:   2,
		HbA1c:          "NONE",
		AdmitSource:    "EMERGENCY",
		PatientVisits:  1,
		NumMedications: 5,
		NumDiagnosis:   3,
		InsulinLevel:   "STEADY",
	}
	for _, mod := range mods {
		mod(&a)
	}
	return a
}

func seedAdmissions(t *testing.T, db *database.DB, records ...models.Admission) {
	t.Helper()
	for i := range records {
		if err := db.Create(context.Background(), &records[i]); err != nil {
			t.Fatalf("seed admission %d: %v", i, err)
		}
	}
}

// validCreateBody is a complete create request; override keys via
// createBody.
const validCreateBody = `{
	"admission_date": "2024-05-17",
	"race": "AfricanAmerican",
	"sex": "female",
	"age_group": ">=60",
	"hospital_stay": 0,
	"hba1c": "elevated",
	"diabetes_med": false,
	"admit_source": "referral",
	"patient_visits": 0,
	"num_medications": 12,
	"num_diagnosis": 7,
	"insulin_level": "up",
	"readmitted": false
}`

// createBody returns validCreateBody with fields replaced (raw JSON
// values) or removed (empty value).
func createBody(t *testing.T, overrides map[string]string) string {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(validCreateBody), &m); err != nil {
		t.Fatalf("decode base body: %v", err)
	}
	for k, v := range overrides {
		if v == "" {
			delete(m, k)
			continue
		}
		m[k] = json.RawMessage(v)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return string(out)
}

// fakeStore returns canned results or err for every call.
type fakeStore struct {
	err     error
	pingErr error

	mu      sync.Mutex
	created []models.Admission
}

func (f *fakeStore) Create(_ context.Context, a *models.Admission) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeStore) HighRiskStats(context.Context) (models.HighRiskStats, error) {
	return models.HighRiskStats{}, f.err
}

func (f *fakeStore) ChronicReadmissions(context.Context, int, int) (models.Page[models.Admission], error) {
	return models.Page[models.Admission]{}, f.err
}

func (f *fakeStore) ComplexClinical(context.Context, int, int) (models.Page[models.Admission], error) {
	return models.Page[models.Admission]{}, f.err
}

func (f *fakeStore) InsulinSummary(context.Context) ([]models.InsulinGroup, error) {
	return nil, f.err
}

func (f *fakeStore) GenderAnalysis(context.Context) ([]models.GenderGroup, error) {
	return nil, f.err
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func hasPrefix(s *string, prefix string) bool {
	return s != nil && strings.HasPrefix(*s, prefix)
}
