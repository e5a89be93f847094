// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	// lastRunKey holds the most recent successful run.
	lastRunKey = "ingest:last_run"

	// runKeyPrefix prefixes one key per run, ordered by start time.
	runKeyPrefix = "ingest:run:"
)

// ProgressTracker records completed loads.
type ProgressTracker interface {
	// Save records a completed run.
	Save(ctx context.Context, stats *Stats) error

	// Load returns the most recent run, or nil when none was recorded.
	Load(ctx context.Context) (*Stats, error)

	// History returns up to limit runs, newest first.
	History(ctx context.Context, limit int) ([]Stats, error)

	// Clear forgets every recorded run.
	Clear(ctx context.Context) error
}

func runKey(s *Stats) []byte {
	// Fixed-width UTC timestamps sort lexically in time order.
	return []byte(runKeyPrefix + s.StartTime.UTC().Format("20060102T150405.000000000Z"))
}

// BadgerProgress implements ProgressTracker on BadgerDB so run history
// survives restarts of the loader.
type BadgerProgress struct {
	db    *badger.DB
	owned bool
}

// NewBadgerProgress wraps an already open BadgerDB. The caller keeps
// ownership of db.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// OpenBadgerProgress opens (or creates) a BadgerDB directory at path.
// Close releases it.
func OpenBadgerProgress(path string) (*BadgerProgress, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open progress store %s: %w", path, err)
	}
	return &BadgerProgress{db: db, owned: true}, nil
}

// Close closes the BadgerDB if OpenBadgerProgress opened it.
func (p *BadgerProgress) Close() error {
	if p.owned {
		return p.db.Close()
	}
	return nil
}

// Save persists stats as both the last run and a history entry.
func (p *BadgerProgress) Save(_ context.Context, stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	return p.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(lastRunKey), data); err != nil {
			return err
		}
		return txn.Set(runKey(stats), data)
	})
}

// Load retrieves the last saved run from BadgerDB.
// Returns nil, nil if no run has been saved.
func (p *BadgerProgress) Load(_ context.Context) (*Stats, error) {
	var stats *Stats

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastRunKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			stats = &Stats{}
			return json.Unmarshal(val, stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return stats, nil
}

// History walks the run keys in reverse.
func (p *BadgerProgress) History(_ context.Context, limit int) ([]Stats, error) {
	var runs []Stats

	err := p.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the largest key <= seek.
		seek := append([]byte(runKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var s Stats
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			}); err != nil {
				return err
			}
			runs = append(runs, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return runs, nil
}

// Clear removes every recorded run.
func (p *BadgerProgress) Clear(_ context.Context) error {
	if err := p.db.DropPrefix([]byte(runKeyPrefix)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(lastRunKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker for tests and for runs
// without a configured progress path.
type InMemoryProgress struct {
	mu   sync.Mutex
	runs []Stats // oldest first
}

// NewInMemoryProgress creates a new in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Save stores a copy of stats.
func (p *InMemoryProgress) Save(_ context.Context, stats *Stats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, *stats)
	return nil
}

// Load returns a copy of the newest run.
func (p *InMemoryProgress) Load(_ context.Context) (*Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.runs) == 0 {
		return nil, nil
	}
	last := p.runs[len(p.runs)-1]
	return &last, nil
}

// History returns up to limit runs, newest first.
func (p *InMemoryProgress) History(_ context.Context, limit int) ([]Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Stats
	for i := len(p.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, p.runs[i])
	}
	return out, nil
}

// Clear removes the stored runs.
func (p *InMemoryProgress) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = nil
	return nil
}

// OpenProgress returns a Badger tracker at path, or an in-memory one when
// path is empty. The returned close function is never nil.
func OpenProgress(path string) (ProgressTracker, func() error, error) {
	if path == "" {
		return NewInMemoryProgress(), func() error { return nil }, nil
	}
	p, err := OpenBadgerProgress(path)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

var (
	_ ProgressTracker = (*BadgerProgress)(nil)
	_ ProgressTracker = (*InMemoryProgress)(nil)
)

// sinceLast describes how long ago a run finished, for log lines.
func sinceLast(s *Stats) time.Duration {
	if s == nil || s.EndTime.IsZero() {
		return 0
	}
	return time.Since(s.EndTime).Round(time.Second)
}
