// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaTimeout bounds DDL at open.
const schemaTimeout = 60 * time.Second

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

// ensureContext applies the configured query timeout unless the caller
// already set a deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok || db.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// acquireWrite waits for the write slot or ctx. The returned func releases
// the slot.
func (db *DB) acquireWrite(ctx context.Context) (func(), error) {
	if db.writes == nil {
		return func() {}, nil
	}
	select {
	case db.writes <- struct{}{}:
		return func() { <-db.writes }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for write slot: %w", ctx.Err())
	}
}
