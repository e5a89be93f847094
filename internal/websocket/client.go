// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/admissions/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Viewers only send {"type":"ping"}.
	maxMessageSize = 4 * 1024

	sendBuffer = 256
)

// Close reasons sent to viewers when the server ends the feed.
const (
	closeReasonShutdown = "server shutting down"
	closeReasonTooSlow  = "client too slow, reconnect"
)

var clientIDCounter atomic.Uint64

// Pong is the data of a pong reply.
type Pong struct {
	ServerTime time.Time `json:"server_time"`
}

// Client is one viewer connected to the admission feed.
type Client struct {
	id     uint64 // connection order
	viewer string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message

	delivered atomic.Int64
	dropped   atomic.Bool
}

// NewClient wraps conn for viewer, the authenticated username or
// "anonymous". Join it to the hub, then call Start.
func NewClient(hub *Hub, conn *websocket.Conn, viewer string) *Client {
	return &Client{
		id:     clientIDCounter.Add(1),
		viewer: viewer,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
	}
}

// ID returns the client's connection-order identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Viewer returns the username the feed was opened for.
func (c *Client) Viewer() string {
	return c.viewer
}

// Start runs the read and write loops until the connection ends.
func (c *Client) Start() {
	logging.Info().
		Uint64("client_id", c.id).
		Str("viewer", c.viewer).
		Str("remote_addr", c.conn.RemoteAddr().String()).
		Msg("Admission feed connected")

	go c.writePump()
	go c.readPump()
}

// readPump handles viewer pings. Anything else is ignored. When the
// connection ends the client leaves the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.stopped:
		}
		_ = c.conn.Close()
		logging.Info().
			Uint64("client_id", c.id).
			Str("viewer", c.viewer).
			Int64("delivered", c.delivered.Load()).
			Msg("Admission feed disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("Admission feed closed unexpectedly")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Debug().Err(err).Uint64("client_id", c.id).Msg("Ignoring malformed feed frame")
			continue
		}
		if msg.Type != MessageTypePing {
			continue
		}

		select {
		case c.send <- Message{Type: MessageTypePong, Data: Pong{ServerTime: time.Now().UTC()}}:
		default:
		}
	}
}

// writePump delivers hub messages and keepalive pings. When the hub closes
// the send channel it tells the viewer why before closing.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, c.closeFrame())
				return
			}
			if err := c.write(msg); err != nil {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("Admission feed write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Str("type", msg.Type).Msg("Failed to encode feed message")
		return nil
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if msg.Type != MessageTypePong {
		c.delivered.Add(1)
	}
	return nil
}

// closeFrame explains why the hub let go of the client.
func (c *Client) closeFrame() []byte {
	select {
	case <-c.hub.stopped:
		return websocket.FormatCloseMessage(websocket.CloseGoingAway, closeReasonShutdown)
	default:
	}
	if c.dropped.Load() {
		return websocket.FormatCloseMessage(websocket.CloseTryAgainLater, closeReasonTooSlow)
	}
	return websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
}
