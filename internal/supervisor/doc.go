// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package supervisor runs the long-lived parts of the API server under a
suture v4 supervisor tree.

# Overview

	"admissions"
	├── "data-layer"       LayerData
	│   ├── LoadService (if IMPORT_LOAD_ON_START, waits for the bus)
	│   └── audit.Logger retention (if AUDIT_RETENTION > 0)
	├── "messaging-layer"  LayerMessaging
	│   ├── events.Bus
	│   └── websocket.Hub
	└── "api-layer"        LayerAPI
	    └── APIServer

Crashed services restart with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog-backed slog handler. Serve logs
the service names in each layer before starting.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.MustAdd(supervisor.LayerMessaging, bus)
	tree.MustAdd(supervisor.LayerAPI, services.NewAPIServer(srv, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
