// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/admissions/internal/events"
	"github.com/tomtom215/admissions/internal/logging"
)

// Message types.
const (
	MessageTypeAdmissionCreated   = "admission_created"
	MessageTypeAdmissionsReloaded = "admissions_reloaded"
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
)

// Message is one frame sent to clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	stopped  chan struct{} // closed when Serve returns
	stopOnce sync.Once
}

// NewHub creates a hub. Call Serve to start it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		stopped:    make(chan struct{}),
	}
}

// Serve implements suture.Service. Lifecycle events are handled before
// broadcasts so a message is never sent to a client that already left.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
}

// sortedClients returns clients in connection order. Caller holds mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends message to every client, dropping any whose
// buffer is full.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			client.dropped.Store(true)
			close(client.send)
			delete(h.clients, client)
			logging.Warn().
				Uint64("client_id", client.id).
				Str("viewer", client.viewer).
				Msg("websocket client too slow, dropped")
		}
	}
}

func (h *Hub) shutdown() {
	// stopped closes first so writers see a shutdown, not a drop.
	h.stopOnce.Do(func() { close(h.stopped) })

	h.mu.Lock()
	clients := h.sortedClients()
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// Join registers client. It returns false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// BroadcastJSON queues a message for all clients. It never blocks.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe forwards admission events from bus to clients. Call before
// the bus starts serving.
func (h *Hub) Subscribe(bus *events.Bus) {
	bus.OnCreated("websocket-admission-created", func(ev events.AdmissionCreated, _ events.Meta) {
		h.BroadcastJSON(MessageTypeAdmissionCreated, ev.Admission)
	})
	bus.OnReloaded("websocket-admissions-reloaded", func(ev events.AdmissionsReloaded, _ events.Meta) {
		h.BroadcastJSON(MessageTypeAdmissionsReloaded, ev)
	})
}
