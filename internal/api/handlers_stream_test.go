// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/admissions/internal/websocket"
)

func startStreamServer(t *testing.T, origins []string) (*httptest.Server, *websocket.Hub) {
	t.Helper()

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	h := NewHandler(&fakeStore{})
	h.SetEventStream(hub, origins)
	srv := httptest.NewServer(newTestServer(h))

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv, hub
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events/ws"
}

func TestEventStream_DeliversBroadcast(t *testing.T) {
	srv, hub := startStreamServer(t, []string{"https://dashboard.example"})

	header := http.Header{"Origin": []string{"https://dashboard.example"}}
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.BroadcastJSON(websocket.MessageTypeAdmissionCreated, map[string]int{"id": 3})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg websocket.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != websocket.MessageTypeAdmissionCreated {
		t.Errorf("type = %q", msg.Type)
	}
}

func TestEventStream_RejectsOrigins(t *testing.T) {
	srv, _ := startStreamServer(t, []string{"https://dashboard.example"})

	tests := []struct {
		name   string
		origin string
	}{
		{"missing origin", ""},
		{"foreign origin", "https://evil.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
			if err == nil {
				t.Fatal("dial succeeded")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}

func TestEventStream_WildcardOrigin(t *testing.T) {
	srv, _ := startStreamServer(t, []string{"*"})

	header := http.Header{"Origin": []string{"https://anywhere.example"}}
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()
}

func TestEventStream_NotConfigured(t *testing.T) {
	srv := newTestServer(NewHandler(&fakeStore{}))
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/events/ws", "")
	checkErrorCode(t, rec, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}
