// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names one branch of the tree.
type Layer string

// Layers in the order they join the root. suture starts them together, so
// a service that needs another layer waits on that layer's ready signal.
const (
	// LayerData holds the startup CSV load and audit retention.
	LayerData Layer = "data"
	// LayerMessaging holds the event bus and the websocket hub.
	LayerMessaging Layer = "messaging"
	// LayerAPI holds the HTTP API.
	LayerAPI Layer = "api"
)

var layerOrder = []Layer{LayerData, LayerMessaging, LayerAPI}

// TreeConfig holds restart and shutdown settings shared by every layer.
type TreeConfig struct {
	// Failures above this count put a layer into backoff. Default 5.
	FailureThreshold float64
	// Seconds for one failure to decay. Default 30.
	FailureDecay float64
	// Wait once the threshold is hit. Default 15s.
	FailureBackoff time.Duration
	// Per-service stop deadline. Default 10s.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree runs the admissions server as one suture root with a
// child supervisor per Layer. A crashed event router or a failed startup
// load restarts inside its own layer while the API keeps answering.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig
	logger *slog.Logger

	mu       sync.Mutex
	services map[Layer][]string
}

// NewSupervisorTree builds the tree. Zero config fields take their defaults.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, errors.New("supervisor tree needs a logger")
	}
	config = config.withDefaults()

	// MustHook has a pointer receiver. Children inherit it from the root.
	events := &sutureslog.Handler{Logger: logger}
	root := suture.New("admissions", config.spec(events.MustHook()))

	tree := &SupervisorTree{
		root:     root,
		layers:   make(map[Layer]*suture.Supervisor, len(layerOrder)),
		config:   config,
		logger:   logger,
		services: make(map[Layer][]string, len(layerOrder)),
	}
	for _, layer := range layerOrder {
		sup := suture.New(string(layer)+"-layer", config.spec(nil))
		root.Add(sup)
		tree.layers[layer] = sup
	}
	return tree, nil
}

// Add places svc in layer. fmt.Sprint(svc) names it in the layout and in
// suture's logs.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	sup, ok := t.layers[layer]
	if !ok {
		return suture.ServiceToken{}, fmt.Errorf("unknown supervisor layer %q", layer)
	}
	t.mu.Lock()
	t.services[layer] = append(t.services[layer], fmt.Sprint(svc))
	t.mu.Unlock()
	return sup.Add(svc), nil
}

// MustAdd is Add for the fixed layers declared in this package.
func (t *SupervisorTree) MustAdd(layer Layer, svc suture.Service) suture.ServiceToken {
	token, err := t.Add(layer, svc)
	if err != nil {
		panic(err)
	}
	return token
}

// Layout returns the service names added to each layer, in order.
func (t *SupervisorTree) Layout() map[Layer][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Layer][]string, len(t.services))
	for layer, names := range t.services {
		out[layer] = append([]string(nil), names...)
	}
	return out
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// Serve logs the layout and runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	t.logLayout()
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result when the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	t.logLayout()
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

func (t *SupervisorTree) logLayout() {
	layout := t.Layout()
	attrs := make([]any, 0, len(layerOrder)+1)
	for _, layer := range layerOrder {
		attrs = append(attrs, slog.Any(string(layer), layout[layer]))
	}
	attrs = append(attrs, slog.Duration("shutdown_timeout", t.config.ShutdownTimeout))
	t.logger.Info("Starting supervisor tree", attrs...)
}
