// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package audit

import (
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypeAdmissionCreated   EventType = "admission.created"
	EventTypeAdmissionsReloaded EventType = "admissions.reloaded"
	EventTypeAuthFailure        EventType = "auth.failure"
	EventTypeAuthzDenied        EventType = "authz.denied"
)

// ValidEventType reports whether t is one of the recorded event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeAdmissionCreated, EventTypeAdmissionsReloaded, EventTypeAuthFailure, EventTypeAuthzDenied:
		return true
	}
	return false
}

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Actors used when no authenticated user is attached.
const (
	ActorAnonymous = "anonymous"
	ActorSystem    = "system"
)

// Event is one audit record.
type Event struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        EventType       `json:"type"`
	Outcome     Outcome         `json:"outcome"`
	Actor       string          `json:"actor"`
	Action      string          `json:"action"`
	Target      string          `json:"target,omitempty"`
	Description string          `json:"description"`
	RequestID   string          `json:"request_id,omitempty"`
	SourceIP    string          `json:"source_ip,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// QueryFilter selects events. Zero fields match everything. Results are
// newest first.
type QueryFilter struct {
	Type   EventType
	Actor  string
	Since  time.Time
	Limit  int
	Offset int
}

func (f *QueryFilter) matches(e *Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}
