// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"net/http"
	"slices"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/websocket"
)

// EventStream upgrades to a websocket that receives admission events.
//
// @Summary Live admission events
// @Description Websocket feed of admission_created and admissions_reloaded messages. Send {"type":"ping"} for a pong.
// @Tags Realtime
// @Success 101 {string} string "Switching Protocols"
// @Failure 403 {string} string "Origin not allowed"
// @Failure 503 {object} APIResponse "Event stream disabled"
// @Security BearerAuth
// @Router /v1/events/ws [get]
func (h *Handler) EventStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Event stream is not enabled", nil)
		return
	}

	upgrader := gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkStreamOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	viewer := "anonymous"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		viewer = claims.Username
	}

	client := websocket.NewClient(h.hub, conn, viewer)
	if !h.hub.Join(client) {
		_ = conn.Close()
		return
	}
	client.Start()
}

// checkStreamOrigin rejects requests without an Origin header and origins
// outside the configured list.
func (h *Handler) checkStreamOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	if slices.Contains(h.wsOrigins, "*") || slices.Contains(h.wsOrigins, origin) {
		return true
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
