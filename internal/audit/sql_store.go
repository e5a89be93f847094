// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on the admission database. The same SQL runs
// on DuckDB and PostgreSQL; placeholders go through sqlx.Rebind.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a store on db. Call CreateTable before use.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// CreateTable creates audit_events and its index if they do not exist.
func (s *SQLStore) CreateTable(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audit_events (
			id          VARCHAR(36) PRIMARY KEY,
			occurred_at TIMESTAMP NOT NULL,
			event_type  VARCHAR(32) NOT NULL,
			outcome     VARCHAR(16) NOT NULL,
			actor       VARCHAR(64) NOT NULL,
			action      VARCHAR(32) NOT NULL,
			target      VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			request_id  VARCHAR(64) NOT NULL DEFAULT '',
			source_ip   VARCHAR(64) NOT NULL DEFAULT '',
			metadata    TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at ON audit_events (occurred_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create audit table: %w", err)
		}
	}
	return nil
}

const eventColumns = `id, occurred_at, event_type, outcome, actor, action, target, description, request_id, source_ip, metadata`

// eventRow is the scan target; metadata is stored as JSON text.
type eventRow struct {
	ID          string    `db:"id"`
	OccurredAt  time.Time `db:"occurred_at"`
	Type        string    `db:"event_type"`
	Outcome     string    `db:"outcome"`
	Actor       string    `db:"actor"`
	Action      string    `db:"action"`
	Target      string    `db:"target"`
	Description string    `db:"description"`
	RequestID   string    `db:"request_id"`
	SourceIP    string    `db:"source_ip"`
	Metadata    string    `db:"metadata"`
}

func (r *eventRow) toEvent() Event {
	e := Event{
		ID:          r.ID,
		Timestamp:   r.OccurredAt.UTC(),
		Type:        EventType(r.Type),
		Outcome:     Outcome(r.Outcome),
		Actor:       r.Actor,
		Action:      r.Action,
		Target:      r.Target,
		Description: r.Description,
		RequestID:   r.RequestID,
		SourceIP:    r.SourceIP,
	}
	if r.Metadata != "" && r.Metadata != "{}" {
		e.Metadata = json.RawMessage(r.Metadata)
	}
	return e
}

// Save inserts event.
func (s *SQLStore) Save(ctx context.Context, event *Event) error {
	metadata := "{}"
	if len(event.Metadata) > 0 {
		metadata = string(event.Metadata)
	}
	query := s.db.Rebind(`INSERT INTO audit_events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp.UTC(),
		string(event.Type),
		string(event.Outcome),
		event.Actor,
		event.Action,
		event.Target,
		event.Description,
		event.RequestID,
		event.SourceIP,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *SQLStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := buildConditions(filter)
	query := `SELECT ` + eventColumns + ` FROM audit_events` + where + ` ORDER BY occurred_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	events := make([]Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEvent()
	}
	return events, nil
}

// Count returns the number of matching events, ignoring Limit and Offset.
func (s *SQLStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	where, args := buildConditions(filter)
	var n int64
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM audit_events`+where), args...); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

// Delete removes events older than olderThan.
func (s *SQLStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM audit_events WHERE occurred_at < ?`), olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete audit events: %w", err)
	}
	return res.RowsAffected()
}

func buildConditions(filter QueryFilter) (string, []any) {
	var conditions []string
	var args []any
	if filter.Type != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Actor != "" {
		conditions = append(conditions, "actor = ?")
		args = append(args, filter.Actor)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "occurred_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

var _ Store = (*SQLStore)(nil)
var _ Store = (*MemoryStore)(nil)
