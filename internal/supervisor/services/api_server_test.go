// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*APIServer)(nil)

// stubServer serves until Shutdown, then returns serveErr.
type stubServer struct {
	serveErr    error
	immediate   bool // return serveErr without waiting for Shutdown
	shutdownErr error

	shutdownCalls atomic.Int32
	stop          chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{serveErr: http.ErrServerClosed, stop: make(chan struct{})}
}

func (s *stubServer) Serve(ln net.Listener) error {
	defer ln.Close()
	if !s.immediate {
		<-s.stop
	}
	return s.serveErr
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdownCalls.Add(1)
	close(s.stop)
	return s.shutdownErr
}

func waitReady(t *testing.T, svc *APIServer) {
	t.Helper()
	select {
	case <-svc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("api server never bound its address")
	}
}

func serveAsync(svc *APIServer) (context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	return cancel, errCh
}

func waitServe(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}
	return nil
}

func TestNewAPIServer_DefaultDrain(t *testing.T) {
	for _, drain := range []time.Duration{0, -time.Second} {
		if got := NewAPIServer(newStubServer(), "127.0.0.1:0", drain).drain; got != 10*time.Second {
			t.Errorf("drain %v: got %v, want 10s", drain, got)
		}
	}
	if got := NewAPIServer(newStubServer(), "127.0.0.1:0", 3*time.Second).drain; got != 3*time.Second {
		t.Errorf("drain = %v, want 3s", got)
	}
}

func TestAPIServer_ServesUntilCanceled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewAPIServer(&http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, "127.0.0.1:0", time.Second)
	if svc.Addr() != "" {
		t.Errorf("Addr before bind = %q", svc.Addr())
	}

	cancel, errCh := serveAsync(svc)
	waitReady(t, svc)

	resp, err := http.Get("http://" + svc.Addr() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("response = %d %q", resp.StatusCode, body)
	}

	cancel()
	if err := waitServe(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	if _, err := net.DialTimeout("tcp", svc.Addr(), 200*time.Millisecond); err == nil {
		t.Error("address still accepting connections after shutdown")
	}
}

func TestAPIServer_BindConflict(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	server := newStubServer()
	svc := NewAPIServer(server, taken.Addr().String(), time.Second)
	err = svc.Serve(context.Background())

	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("Serve = %v, want a *net.OpError", err)
	}
	select {
	case <-svc.Ready():
		t.Error("Ready closed without a bound address")
	default:
	}
}

func TestAPIServer_ServeErrors(t *testing.T) {
	t.Run("server crash", func(t *testing.T) {
		crash := errors.New("accept: too many open files")
		server := newStubServer()
		server.serveErr, server.immediate = crash, true

		err := NewAPIServer(server, "127.0.0.1:0", time.Second).Serve(context.Background())
		if !errors.Is(err, crash) {
			t.Errorf("Serve = %v, want %v", err, crash)
		}
	})

	t.Run("closed elsewhere", func(t *testing.T) {
		server := newStubServer()
		server.immediate = true

		if err := NewAPIServer(server, "127.0.0.1:0", time.Second).Serve(context.Background()); err != nil {
			t.Errorf("Serve = %v, want nil", err)
		}
	})

	t.Run("drain failure", func(t *testing.T) {
		drainErr := errors.New("context deadline exceeded while draining")
		server := newStubServer()
		server.shutdownErr = drainErr
		svc := NewAPIServer(server, "127.0.0.1:0", time.Second)

		cancel, errCh := serveAsync(svc)
		waitReady(t, svc)
		cancel()

		if err := waitServe(t, errCh); !errors.Is(err, drainErr) {
			t.Errorf("Serve = %v, want %v", err, drainErr)
		}
		if n := server.shutdownCalls.Load(); n != 1 {
			t.Errorf("Shutdown called %d times, want 1", n)
		}
	})
}

func TestAPIServer_UnderSupervisor(t *testing.T) {
	server := newStubServer()
	svc := NewAPIServer(server, "127.0.0.1:0", time.Second)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)
	waitReady(t, svc)
	cancel()
	<-errCh

	if server.shutdownCalls.Load() != 1 {
		t.Error("Shutdown was not called")
	}
	if svc.String() != "admissions-api" {
		t.Errorf("String() = %q", svc.String())
	}
}
