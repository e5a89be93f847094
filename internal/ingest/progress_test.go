// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// exerciseTracker checks the ProgressTracker contract against any backend.
func exerciseTracker(t *testing.T, tracker ProgressTracker) {
	t.Helper()
	ctx := context.Background()

	last, err := tracker.Load(ctx)
	if err != nil || last != nil {
		t.Fatalf("Load on empty tracker = %+v, %v", last, err)
	}

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		s := &Stats{
			Source:    "final_readmit_df.csv",
			Loaded:    int64(i * 100),
			Skipped:   int64(i),
			StartTime: base.Add(time.Duration(i) * time.Hour),
			EndTime:   base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		if err := tracker.Save(ctx, s); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	last, err = tracker.Load(ctx)
	if err != nil || last == nil || last.Loaded != 300 {
		t.Fatalf("Load = %+v, %v; want the third run", last, err)
	}
	if last.Duration() != time.Minute {
		t.Errorf("Duration = %v, want 1m", last.Duration())
	}

	history, err := tracker.History(ctx, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Loaded != 300 || history[1].Loaded != 200 {
		t.Errorf("History(2) = %+v", history)
	}

	all, err := tracker.History(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("History(0) len = %d, %v", len(all), err)
	}

	if err := tracker.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if last, _ := tracker.Load(ctx); last != nil {
		t.Errorf("Load after Clear = %+v", last)
	}
	if h, _ := tracker.History(ctx, 0); len(h) != 0 {
		t.Errorf("History after Clear = %+v", h)
	}
}

func TestInMemoryProgress(t *testing.T) {
	exerciseTracker(t, NewInMemoryProgress())
}

func TestBadgerProgress_InMemory(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer db.Close()
	exerciseTracker(t, NewBadgerProgress(db))
}

func TestBadgerProgress_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p, err := OpenBadgerProgress(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.Save(ctx, &Stats{Loaded: 42, StartTime: time.Now(), EndTime: time.Now()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p, err = OpenBadgerProgress(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p.Close()

	last, err := p.Load(ctx)
	if err != nil || last == nil || last.Loaded != 42 {
		t.Fatalf("Load after reopen = %+v, %v", last, err)
	}
}

func TestStats_RecordsPerSecond(t *testing.T) {
	start := time.Now()
	s := Stats{Loaded: 500, StartTime: start, EndTime: start.Add(2 * time.Second)}
	if got := s.RecordsPerSecond(); got != 250 {
		t.Errorf("RecordsPerSecond = %v, want 250", got)
	}
	if got := (&Stats{StartTime: start, EndTime: start}).RecordsPerSecond(); got != 0 {
		t.Errorf("zero duration rate = %v, want 0", got)
	}
}

func TestOpenProgress(t *testing.T) {
	p, closeFn, err := OpenProgress("")
	if err != nil {
		t.Fatalf("OpenProgress(\"\"): %v", err)
	}
	if _, ok := p.(*InMemoryProgress); !ok {
		t.Errorf("empty path tracker = %T, want *InMemoryProgress", p)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}

	p, closeFn, err = OpenProgress(t.TempDir())
	if err != nil {
		t.Fatalf("OpenProgress(dir): %v", err)
	}
	if _, ok := p.(*BadgerProgress); !ok {
		t.Errorf("dir tracker = %T, want *BadgerProgress", p)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}
