// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/logging"
)

func logCreated(msg *message.Message) error {
	var ev AdmissionCreated
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", TopicAdmissionCreated, err)
	}
	logging.Info().
		Str("event_id", msg.UUID).
		Str("request_id", middleware.MessageCorrelationID(msg)).
		Int64("admission_id", ev.Admission.ID).
		Str("admission", ev.Admission.String()).
		Msg("Admission created")
	return nil
}

func logReloaded(msg *message.Message) error {
	var ev AdmissionsReloaded
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", TopicAdmissionsReloaded, err)
	}
	logging.Info().
		Str("event_id", msg.UUID).
		Str("source", ev.Source).
		Int64("loaded", ev.Loaded).
		Int64("skipped", ev.Skipped).
		Int64("duration_ms", ev.DurationMS).
		Msg("Admissions reloaded")
	return nil
}

// Meta is the message metadata handed to subscribers.
type Meta struct {
	EventID   string
	RequestID string
	Actor     string // empty for unauthenticated or system publishes
}

func metaOf(msg *message.Message) Meta {
	return Meta{
		EventID:   msg.UUID,
		RequestID: middleware.MessageCorrelationID(msg),
		Actor:     msg.Metadata.Get(MetadataActor),
	}
}

// OnCreated registers fn as a consumer of admission.created.
func (b *Bus) OnCreated(name string, fn func(AdmissionCreated, Meta)) {
	b.Handle(name, TopicAdmissionCreated, func(msg *message.Message) error {
		var ev AdmissionCreated
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", TopicAdmissionCreated, err)
		}
		fn(ev, metaOf(msg))
		return nil
	})
}

// OnReloaded registers fn as a consumer of admissions.reloaded.
func (b *Bus) OnReloaded(name string, fn func(AdmissionsReloaded, Meta)) {
	b.Handle(name, TopicAdmissionsReloaded, func(msg *message.Message) error {
		var ev AdmissionsReloaded
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", TopicAdmissionsReloaded, err)
		}
		fn(ev, metaOf(msg))
		return nil
	})
}
