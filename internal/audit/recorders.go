// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package audit

import (
	"net"
	"net/http"
	"strconv"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/events"
	"github.com/tomtom215/admissions/internal/logging"
)

// Subscribe records admission.created and admissions.reloaded events from
// bus. Call before the bus starts serving.
func (l *Logger) Subscribe(bus *events.Bus) {
	bus.OnCreated("audit-admission-created", l.LogAdmissionCreated)
	bus.OnReloaded("audit-admissions-reloaded", l.LogReload)
}

// LogAdmissionCreated records a record added through the API.
func (l *Logger) LogAdmissionCreated(ev events.AdmissionCreated, meta events.Meta) {
	id := strconv.FormatInt(ev.Admission.ID, 10)
	l.Log(&Event{
		Type:        EventTypeAdmissionCreated,
		Outcome:     OutcomeSuccess,
		Actor:       meta.Actor,
		Action:      "create",
		Target:      "admission/" + id,
		Description: "Admission created: " + ev.Admission.String(),
		RequestID:   meta.RequestID,
		Metadata:    mustJSON(map[string]any{"admission_id": ev.Admission.ID, "event_id": meta.EventID}),
	})
}

// LogReload records a completed CSV load. Loads without a caller, such as
// the startup load, are attributed to the system actor.
func (l *Logger) LogReload(ev events.AdmissionsReloaded, meta events.Meta) {
	actor := meta.Actor
	if actor == "" && meta.RequestID == "" {
		actor = ActorSystem
	}
	l.Log(&Event{
		Type:        EventTypeAdmissionsReloaded,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Action:      "reload",
		Target:      ev.Source,
		Description: "Admissions reloaded from " + ev.Source,
		RequestID:   meta.RequestID,
		Metadata: mustJSON(map[string]any{
			"loaded":      ev.Loaded,
			"skipped":     ev.Skipped,
			"duration_ms": ev.DurationMS,
			"event_id":    meta.EventID,
		}),
	})
}

// LogAccessFailure records a request refused with 401 or 403. Other
// statuses are ignored.
func (l *Logger) LogAccessFailure(r *http.Request, status int, message string) {
	var eventType EventType
	var action string
	switch status {
	case http.StatusUnauthorized:
		eventType, action = EventTypeAuthFailure, "authenticate"
	case http.StatusForbidden:
		eventType, action = EventTypeAuthzDenied, "authorize"
	default:
		return
	}

	actor := ActorAnonymous
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		actor = claims.Username
	}
	l.Log(&Event{
		Type:        eventType,
		Outcome:     OutcomeFailure,
		Actor:       actor,
		Action:      action,
		Target:      r.Method + " " + r.URL.Path,
		Description: message,
		RequestID:   logging.RequestIDFromContext(r.Context()),
		SourceIP:    sourceIP(r),
	})
}

// ErrorWriter wraps next so access failures are recorded before the
// response is written.
func (l *Logger) ErrorWriter(next auth.ErrorWriter) auth.ErrorWriter {
	return func(w http.ResponseWriter, r *http.Request, status int, code, message string) {
		l.LogAccessFailure(r, status, message)
		next(w, r, status, code, message)
	}
}

// sourceIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For and X-Real-IP.
func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
