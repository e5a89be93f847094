// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
)

// Loader is the part of ingest.Pipeline the service drives.
type Loader interface {
	Run(ctx context.Context, path string) (*ingest.Stats, error)
}

// LoadService runs one load of the admissions CSV when the tree starts.
//
// After a successful load the service completes and suture does not
// restart it. A missing source file is logged and also ends the service;
// retrying cannot make the file appear. Any other failure is returned so
// the data layer restarts the load with backoff.
//
// The load starts only after ready is closed, so its admissions.reloaded
// event reaches subscribers started in another layer of the tree.
type LoadService struct {
	loader Loader
	path   string
	ready  <-chan struct{}
	name   string
}

// NewLoadService creates a startup load of path that waits for ready.
// A nil ready channel starts the load immediately.
func NewLoadService(loader Loader, path string, ready <-chan struct{}) *LoadService {
	return &LoadService{
		loader: loader,
		path:   path,
		ready:  ready,
		name:   "startup-load",
	}
}

// Serve implements suture.Service.
func (s *LoadService) Serve(ctx context.Context) error {
	if s.ready != nil {
		select {
		case <-s.ready:
		case <-ctx.Done():
			logging.Info().Msg("Startup load canceled before the event bus started")
			return ctx.Err()
		}
	}

	logging.Info().Str("source", s.path).Msg("Starting startup load")

	stats, err := s.loader.Run(ctx, s.path)
	switch {
	case err == nil:
		logging.Info().
			Int64("loaded", stats.Loaded).
			Int64("skipped", stats.Skipped).
			Dur("duration", stats.Duration()).
			Msg("Startup load completed")
		return suture.ErrDoNotRestart

	case ctx.Err() != nil:
		logging.Info().Msg("Startup load canceled due to shutdown")
		return ctx.Err()

	case errors.Is(err, ingest.ErrSourceNotFound):
		logging.Error().Err(err).Str("source", s.path).Msg("Startup load skipped")
		return suture.ErrDoNotRestart

	case errors.Is(err, ingest.ErrAlreadyRunning):
		logging.Warn().Msg("Startup load skipped, a load is already running")
		return suture.ErrDoNotRestart
	}

	return fmt.Errorf("startup load failed: %w", err)
}

// String implements fmt.Stringer.
func (s *LoadService) String() string {
	return s.name
}
