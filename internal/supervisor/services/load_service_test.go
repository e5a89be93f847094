// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/admissions/internal/ingest"
)

type fakeLoader struct {
	errs  []error
	calls atomic.Int32
}

func (f *fakeLoader) Run(ctx context.Context, path string) (*ingest.Stats, error) {
	n := int(f.calls.Add(1))
	if n <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	now := time.Now()
	return &ingest.Stats{Source: path, Loaded: 10, StartTime: now, EndTime: now}, nil
}

func TestLoadService_Serve(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"success", nil, suture.ErrDoNotRestart},
		{"missing file", fmt.Errorf("open x.csv: %w", ingest.ErrSourceNotFound), suture.ErrDoNotRestart},
		{"already running", ingest.ErrAlreadyRunning, suture.ErrDoNotRestart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLoadService(&fakeLoader{errs: []error{tt.err}}, "x.csv", nil)
			if err := svc.Serve(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("Serve() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadService_ReturnsStoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := NewLoadService(&fakeLoader{errs: []error{storeErr}}, "x.csv", nil)

	err := svc.Serve(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("Serve() = %v, want wrapped %v", err, storeErr)
	}
	if errors.Is(err, suture.ErrDoNotRestart) {
		t.Error("store failures should be restartable")
	}
}

func TestLoadService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewLoadService(&fakeLoader{errs: []error{context.Canceled}}, "x.csv", nil)
	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestLoadService_RestartedBySupervisor(t *testing.T) {
	loader := &fakeLoader{errs: []error{errors.New("transient"), nil}}

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 5,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewLoadService(loader, "x.csv", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for loader.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("loader called %d times, want 2", loader.calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-errCh

	if n := loader.calls.Load(); n != 2 {
		t.Errorf("loader called %d times after success, want 2", n)
	}
}

func TestLoadService_WaitsForReady(t *testing.T) {
	loader := &fakeLoader{}
	ready := make(chan struct{})
	svc := NewLoadService(loader, "x.csv", ready)

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	if n := loader.calls.Load(); n != 0 {
		t.Fatalf("loader called %d times before ready", n)
	}

	close(ready)
	select {
	case err := <-errCh:
		if !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after ready")
	}
	if n := loader.calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
}

func TestLoadService_CanceledWhileWaiting(t *testing.T) {
	loader := &fakeLoader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewLoadService(loader, "x.csv", make(chan struct{}))
	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if n := loader.calls.Load(); n != 0 {
		t.Errorf("loader called %d times, want 0", n)
	}
}

func TestLoadService_String(t *testing.T) {
	if got := NewLoadService(&fakeLoader{}, "x.csv", nil).String(); got != "startup-load" {
		t.Errorf("String() = %q", got)
	}
}
