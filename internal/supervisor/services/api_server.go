// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/admissions/internal/logging"
)

// Server is the part of *http.Server the API service drives.
type Server interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// APIServer binds the admissions API address and serves it until the tree
// stops. A port conflict is returned from Serve and suture retries it.
type APIServer struct {
	server Server
	addr   string
	drain  time.Duration

	mu        sync.Mutex
	bound     string
	ready     chan struct{}
	readyOnce sync.Once
}

// NewAPIServer serves server on addr. drain bounds how long in-flight
// report requests get on shutdown. A non-positive drain becomes 10s.
func NewAPIServer(server Server, addr string, drain time.Duration) *APIServer {
	if drain <= 0 {
		drain = 10 * time.Second
	}
	return &APIServer{
		server: server,
		addr:   addr,
		drain:  drain,
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the address is bound for the first time.
func (s *APIServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or "" before the first bind. With port 0
// it reports the port the kernel picked.
func (s *APIServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Serve implements suture.Service. A server closed by someone else
// returns nil.
func (s *APIServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind admissions api on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })
	logging.Info().Str("addr", ln.Addr().String()).Msg("Admissions API listening")

	served := make(chan error, 1)
	go func() { served <- s.server.Serve(ln) }()

	select {
	case err := <-served:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admissions api stopped: %w", err)

	case <-ctx.Done():
		logging.Info().Dur("drain_timeout", s.drain).Msg("Draining in-flight API requests")

		// ctx is already done; draining gets its own deadline.
		drainCtx, cancel := context.WithTimeout(context.Background(), s.drain)
		defer cancel()
		if err := s.server.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("drain admissions api: %w", err)
		}
		<-served
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
func (s *APIServer) String() string {
	return "admissions-api"
}
