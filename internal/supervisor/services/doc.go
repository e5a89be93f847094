// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package services provides suture.Service wrappers for admissions components.

Each wrapper implements the suture v4 interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its logs.

# Available Services

Admissions API (APIServer):
  - Binds the listen address itself, so Addr and Ready report the real port
  - Drains in-flight requests with a bounded Shutdown on cancel

Startup Load (LoadService):
  - Runs one CSV load when the server starts, if import.load_on_start is set
  - A missing source file is logged and not retried
  - Other failures are returned so the supervisor restarts the load

The event bus (events.Bus) implements suture.Service itself and needs no
wrapper.
*/
package services
