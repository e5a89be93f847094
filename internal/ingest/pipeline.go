// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/metrics"
	"github.com/tomtom215/admissions/internal/models"
)

// DefaultBatchSize is the flush threshold when Options.BatchSize is unset.
const DefaultBatchSize = 1000

// Store is the part of the admission store a load needs. fill receives an
// insert function bound to one transaction that also erased the table.
type Store interface {
	ReplaceAdmissions(ctx context.Context, fill func(insert func([]models.Admission) error) error) error
}

// Publisher is notified after a load commits.
type Publisher interface {
	PublishReloaded(ctx context.Context, stats Stats) error
}

// Options configure a Pipeline. Zero values are usable.
type Options struct {
	BatchSize int
	Output    io.Writer       // operator-facing progress lines; nil discards
	Progress  ProgressTracker // nil keeps no history
	Publisher Publisher       // nil publishes nothing
}

// Pipeline runs CSV loads against a Store, one at a time.
type Pipeline struct {
	store     Store
	batchSize int
	out       io.Writer
	progress  ProgressTracker
	publisher Publisher

	mu      sync.Mutex
	running bool
}

// NewPipeline creates a loader for store.
func NewPipeline(store Store, opts Options) *Pipeline {
	p := &Pipeline{
		store:     store,
		batchSize: opts.BatchSize,
		out:       opts.Output,
		progress:  opts.Progress,
		publisher: opts.Publisher,
	}
	if p.batchSize <= 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.out == nil {
		p.out = io.Discard
	}
	return p
}

// IsRunning reports whether a load is in progress.
func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// LastRun returns the previous successful run, or nil.
func (p *Pipeline) LastRun(ctx context.Context) (*Stats, error) {
	if p.progress == nil {
		return nil, nil
	}
	return p.progress.Load(ctx)
}

// Run replaces the store content with the rows of the CSV file at path.
// It returns nil Stats on failure; the store then holds exactly what it
// held before the call.
func (p *Pipeline) Run(ctx context.Context, path string) (*Stats, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	stats := &Stats{Source: path, StartTime: time.Now()}
	log := logging.WithComponent("ingest")

	reader, err := OpenCSV(path)
	if err != nil {
		result := metrics.IngestResultFailed
		if errors.Is(err, ErrSourceNotFound) {
			result = metrics.IngestResultNotFound
		}
		metrics.RecordIngestRun(result, 0, 0, time.Since(stats.StartTime))
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Error closing source file")
		}
	}()

	fmt.Fprintln(p.out, "--- Erasing old database records ---")
	fmt.Fprintf(p.out, "--- Starting data load from %s ---\n", path)

	err = p.store.ReplaceAdmissions(ctx, func(insert func([]models.Admission) error) error {
		return p.load(ctx, reader, stats, insert)
	})
	stats.EndTime = time.Now()
	if err != nil {
		metrics.RecordIngestRun(metrics.IngestResultFailed, 0, 0, stats.Duration())
		log.Error().Err(err).Str("source", path).Msg("Load rolled back")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	metrics.RecordIngestRun(metrics.IngestResultSuccess, stats.Loaded, stats.Skipped, stats.Duration())
	log.Info().
		Str("source", path).
		Int64("loaded", stats.Loaded).
		Int64("skipped", stats.Skipped).
		Int("batches", stats.Batches).
		Dur("duration", stats.Duration()).
		Msg("Load completed")

	p.afterCommit(ctx, stats)
	return stats, nil
}

// load streams rows into batches inside the replace transaction.
func (p *Pipeline) load(ctx context.Context, reader *CSVReader, stats *Stats, insert func([]models.Admission) error) error {
	batch := make([]models.Admission, 0, p.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := insert(batch); err != nil {
			return err
		}
		stats.Batches++
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			stats.Skipped++
			logging.Debug().Int("line", line).Str("reason", rowErr.Reason).Msg("Skipping malformed row")
			continue
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}

		res := Normalize(row)
		res.Line = line
		if !res.OK() {
			stats.Skipped++
			if errors.As(res.Err, &rowErr) {
				rowErr.Line = line
			}
			logging.Debug().Err(res.Err).Msg("Skipping row")
			continue
		}

		batch = append(batch, res.Record)
		stats.Loaded++

		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return err
			}
			fmt.Fprintf(p.out, "Progress: %d records loaded...\n", stats.Loaded)
		}
	}

	return flush()
}

// afterCommit records history and publishes the reload. Neither can undo
// a committed load, so failures are logged only.
func (p *Pipeline) afterCommit(ctx context.Context, stats *Stats) {
	if p.progress != nil {
		if err := p.progress.Save(ctx, stats); err != nil {
			logging.Warn().Err(err).Msg("Failed to record load history")
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishReloaded(ctx, *stats); err != nil {
			logging.Warn().Err(err).Msg("Failed to publish reload event")
		}
	}
}

// LogPrevious writes the previous run summary to the log, if there is one.
func (p *Pipeline) LogPrevious(ctx context.Context) {
	last, err := p.LastRun(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Could not read load history")
		return
	}
	if last == nil {
		logging.Info().Msg("No previous load recorded")
		return
	}
	logging.Info().
		Str("source", last.Source).
		Int64("loaded", last.Loaded).
		Int64("skipped", last.Skipped).
		Dur("ago", sinceLast(last)).
		Msg("Previous load")
}
