// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package main is the one-shot CSV loader.
//
// It erases the admission store and refills it from the configured CSV
// file (final_readmit_df.csv in the working directory unless
// IMPORT_SOURCE_PATH says otherwise). Progress and the final summary go to
// stdout; structured logs go to stderr.
//
//	go run ./cmd/loader
//
// The exit status is 0 on success and 1 when the file is missing or the
// load fails. A failed load leaves the store as it was.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/database"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
)

const rule = "------------------------------"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout)
	stop()
	os.Exit(code)
}

// run performs one load and returns the process exit status.
func run(ctx context.Context, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	progress, closeProgress, err := ingest.OpenProgress(cfg.Import.ProgressPath)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open load history")
		return 1
	}
	defer func() {
		if err := closeProgress(); err != nil {
			logging.Warn().Err(err).Msg("Error closing load history")
		}
	}()

	pipeline := ingest.NewPipeline(db, ingest.Options{
		BatchSize: cfg.Import.BatchSize,
		Output:    stdout,
		Progress:  progress,
	})
	pipeline.LogPrevious(ctx)

	stats, err := pipeline.Run(ctx, cfg.Import.SourcePath)
	switch {
	case errors.Is(err, ingest.ErrSourceNotFound):
		fmt.Fprintf(stdout, "ERROR: Could not find %s. Ensure it is in the root project folder.\n", cfg.Import.SourcePath)
		return 1
	case err != nil:
		logging.Error().Err(err).Str("source", cfg.Import.SourcePath).Msg("Load failed")
		return 1
	}

	printSummary(stdout, stats)
	return 0
}

func printSummary(w io.Writer, stats *ingest.Stats) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "SUCCESS: %d records loaded.\n", stats.Loaded)
	fmt.Fprintf(w, "SKIPPED: %d records due to formatting errors.\n", stats.Skipped)
	fmt.Fprintln(w, rule)
}
