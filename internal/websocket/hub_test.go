// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/admissions/internal/events"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/models"
)

// startHub runs hub until the test ends and returns its cancel func.
func startHub(t *testing.T, hub *Hub) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("hub did not stop")
		}
	})
	return cancel
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Fatal("hub channels not initialized")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}
	if hub.String() != "websocket-hub" {
		t.Errorf("String() = %q", hub.String())
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)

	a, b := createTestClient(hub, 4), createTestClient(hub, 4)
	if !hub.Join(a) || !hub.Join(b) {
		t.Fatal("Join returned false on a running hub")
	}
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeAdmissionsReloaded, map[string]int{"loaded": 3})

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != MessageTypeAdmissionsReloaded {
			t.Errorf("client %d got type %q", c.ID(), msg.Type)
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)

	c := createTestClient(hub, 1)
	hub.Join(c)
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)

	slow := createTestClient(hub, 1)
	fast := createTestClient(hub, 8)
	hub.Join(slow)
	hub.Join(fast)
	waitForClients(t, hub, 2)

	hub.BroadcastJSON("first", nil)
	hub.BroadcastJSON("second", nil)

	receive(t, fast)
	receive(t, fast)
	waitForClients(t, hub, 1)

	if msg := <-slow.send; msg.Type != "first" {
		t.Errorf("slow client got %q, want first", msg.Type)
	}
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel not closed")
	}
	if !slow.dropped.Load() || fast.dropped.Load() {
		t.Errorf("dropped: slow=%v fast=%v, want only slow", slow.dropped.Load(), fast.dropped.Load())
	}
}

func TestHub_ServeShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	c := createTestClient(hub, 1)
	hub.Join(c)
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}

	if _, ok := <-c.send; ok {
		t.Error("client channel not closed on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d after shutdown", hub.ClientCount())
	}
	if hub.Join(createTestClient(hub, 1)) {
		t.Error("Join succeeded on a stopped hub")
	}
}

func TestHub_SubscribeForwardsBusEvents(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)

	bus := events.NewBus(events.DefaultConfig())
	hub.Subscribe(bus)

	ctx, cancel := context.WithCancel(context.Background())
	busDone := make(chan error, 1)
	go func() { busDone <- bus.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-busDone
		bus.Close()
	})
	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("event router did not start")
	}

	c := createTestClient(hub, 8)
	hub.Join(c)
	waitForClients(t, hub, 1)

	if err := bus.PublishCreated(context.Background(), models.Admission{ID: 5, Sex: "Male"}); err != nil {
		t.Fatalf("PublishCreated: %v", err)
	}
	msg := receive(t, c)
	if msg.Type != MessageTypeAdmissionCreated {
		t.Fatalf("type = %q", msg.Type)
	}
	if a, ok := msg.Data.(models.Admission); !ok || a.ID != 5 {
		t.Errorf("data = %#v", msg.Data)
	}

	start := time.Now()
	if err := bus.PublishReloaded(context.Background(), ingest.Stats{Source: "s.csv", Loaded: 2, StartTime: start, EndTime: start}); err != nil {
		t.Fatalf("PublishReloaded: %v", err)
	}
	msg = receive(t, c)
	if ev, ok := msg.Data.(events.AdmissionsReloaded); !ok || msg.Type != MessageTypeAdmissionsReloaded || ev.Loaded != 2 {
		t.Errorf("reload message = %#v", msg)
	}
}
