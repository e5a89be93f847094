// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package websocket pushes admission events to connected browsers.
//
// A Hub owns the set of clients. Hub.Subscribe attaches it to the event
// bus so every admission.created and admissions.reloaded event becomes a
// JSON message on every open connection:
//
//	{"type": "admission_created", "data": {...admission...}}
//	{"type": "admissions_reloaded", "data": {"source": "...", "loaded": 100, ...}}
//
// Clients may send {"type": "ping"} and receive {"type": "pong"}. The
// server also pings every 54 seconds and drops connections that miss a
// pong for 60 seconds.
//
// Hub.Serve is a suture.Service. On shutdown every client channel is
// closed, which makes the write pump send a close frame.
//
// A client whose send buffer is full is dropped rather than slowing the
// broadcast for everyone else.
package websocket
