// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

// Package logging wraps zerolog behind a process-wide logger shared by the
// API server and the loader.
//
// Call Init once from main with the values from config.LoggingConfig:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("Listening")
//
// Handlers log through Ctx so that request and correlation IDs set by the
// request ID middleware are attached to every event:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Create rejected")
//
// Always terminate an event chain with Msg or Send; an unterminated chain is
// never written.
//
// The slog adapter exists for libraries that only accept *slog.Logger, in
// practice the suture event hook used by the supervisor tree.
package logging
