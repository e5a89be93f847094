// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package ingest loads the admissions CSV export into the store.

A run opens the source file, then erases and refills the admissions table
inside one store transaction. Rows are normalized one at a time; a row that
fails normalization is counted as skipped and the run carries on. Valid
records are flushed to the store in batches (1000 by default) and a progress
line is written after each full batch.

	p := ingest.NewPipeline(db, ingest.Options{BatchSize: 1000, Output: os.Stdout})
	stats, err := p.Run(ctx, "final_readmit_df.csv")

Outcomes:
  - missing file: ErrSourceNotFound, store untouched
  - storage failure: the transaction rolls back, store keeps its old rows
  - success: Stats with Loaded and Skipped counts, saved to the ProgressTracker

Normalization rules (see Normalize): categorical columns are trimmed and
upper-cased, the age token loses "years" and all spaces, yes/no columns
become booleans, and absent columns take fixed defaults.
*/
package ingest
