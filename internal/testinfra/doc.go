// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package testinfra starts throwaway PostgreSQL servers in Docker for
// integration tests of the postgres store driver.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// Tests skip when Docker is not reachable:
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg.Container)
//
//	    db, err := database.New(&config.DatabaseConfig{Driver: config.DriverPostgres, DSN: pg.DSN})
//	}
package testinfra
