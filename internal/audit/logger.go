// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/admissions/internal/logging"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether events are recorded.
	Enabled bool

	// Retention is how long events are kept. 0 keeps them forever.
	Retention time.Duration

	// CleanupInterval is how often retention runs.
	CleanupInterval time.Duration

	// BufferSize is the size of the async write buffer.
	BufferSize int
}

// DefaultConfig returns the defaults used when no config is given.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Retention:       90 * 24 * time.Hour,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// Logger buffers events and writes them to a Store on a background
// goroutine.
type Logger struct {
	config    Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLogger creates a logger writing to store and starts its writer.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Logger{
		config:    cfg,
		store:     store,
		eventChan: make(chan *Event, cfg.BufferSize),
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining events
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("Failed to save audit event")
	}
}

// Log queues event. It never blocks; a full buffer drops the event with a
// warning.
func (l *Logger) Log(event *Event) {
	if !l.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Actor == "" {
		event.Actor = ActorAnonymous
	}

	select {
	case l.eventChan <- event:
	default:
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Close flushes queued events and stops the writer. Safe to call more
// than once.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// Cleanup deletes events older than the retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	if l.config.Retention <= 0 {
		return 0, nil
	}
	return l.store.Delete(ctx, time.Now().Add(-l.config.Retention))
}

// Serve implements suture.Service. It runs retention once per
// CleanupInterval until ctx is canceled.
func (l *Logger) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			count, err := l.Cleanup(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("Audit cleanup error")
			} else if count > 0 {
				logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
			}
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (l *Logger) String() string {
	return "audit-retention"
}

// Query retrieves events matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// Enabled reports whether events are recorded.
func (l *Logger) Enabled() bool {
	return l.config.Enabled
}

// mustJSON converts a value to JSON, returning an empty object on error.
func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
