// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package events carries domain events over an in-process Watermill
// GoChannel pub/sub.
//
// Two topics exist:
//   - admission.created: published by the create endpoint with the stored record
//   - admissions.reloaded: published after a CSV load commits, with its stats
//
// The Bus also runs a Watermill router that logs every event and counts it
// in admissions_events_total. Bus.Serve is a suture.Service so the router
// lives in the supervisor tree alongside the HTTP server.
package events

import (
	"time"

	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/models"
)

// Topics.
const (
	TopicAdmissionCreated   = "admission.created"
	TopicAdmissionsReloaded = "admissions.reloaded"
)

// MetadataActor holds the username of the authenticated publisher.
const MetadataActor = "actor"

// AdmissionCreated is the admission.created payload.
type AdmissionCreated struct {
	Admission models.Admission `json:"admission"`
}

// AdmissionsReloaded is the admissions.reloaded payload.
type AdmissionsReloaded struct {
	Source      string    `json:"source"`
	Loaded      int64     `json:"loaded"`
	Skipped     int64     `json:"skipped"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

func reloadedFromStats(s ingest.Stats) AdmissionsReloaded {
	return AdmissionsReloaded{
		Source:      s.Source,
		Loaded:      s.Loaded,
		Skipped:     s.Skipped,
		DurationMS:  s.Duration().Milliseconds(),
		CompletedAt: s.EndTime,
	}
}
