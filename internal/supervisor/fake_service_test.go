// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// fakeService fails maxFails times, then runs until canceled.
type fakeService struct {
	name     string
	maxFails int32
	starts   atomic.Int32
}

func newFakeService(name string, maxFails int) *fakeService {
	return &fakeService{name: name, maxFails: int32(maxFails)}
}

func (f *fakeService) Serve(ctx context.Context) error {
	if n := f.starts.Add(1); n <= f.maxFails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeService) String() string {
	return f.name
}
