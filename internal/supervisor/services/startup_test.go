// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tomtom215/admissions/internal/events"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/supervisor"
)

// publishingLoader commits instantly and announces the reload on the bus.
type publishingLoader struct {
	bus *events.Bus
}

func (l *publishingLoader) Run(ctx context.Context, path string) (*ingest.Stats, error) {
	now := time.Now()
	stats := &ingest.Stats{Source: path, Loaded: 3, StartTime: now, EndTime: now}
	if err := l.bus.PublishReloaded(ctx, *stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func TestStartupLoad_ReloadReachesBusSubscribers(t *testing.T) {
	bus := events.NewBus(events.DefaultConfig())
	defer bus.Close()

	got := make(chan events.AdmissionsReloaded, 1)
	bus.OnReloaded("test-capture", func(ev events.AdmissionsReloaded, _ events.Meta) {
		got <- ev
	})

	tree, err := supervisor.NewSupervisorTree(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		supervisor.TreeConfig{ShutdownTimeout: 2 * time.Second},
	)
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	tree.MustAdd(supervisor.LayerData, NewLoadService(&publishingLoader{bus: bus}, "startup.csv", bus.Running()))
	tree.MustAdd(supervisor.LayerMessaging, bus)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	select {
	case ev := <-got:
		if ev.Loaded != 3 || ev.Source != "startup.csv" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("admissions.reloaded from the startup load never reached the subscriber")
	}
}
