// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package main is the entry point for the Admissions API server.

The server exposes admission intake and five clinical reports over HTTP,
backed by DuckDB (or PostgreSQL) and run under a Suture v4 supervisor tree:

	RootSupervisor ("admissions")
	├── DataSupervisor ("data-layer")
	│   ├── startup-load (only with IMPORT_LOAD_ON_START=true)
	│   └── audit-retention (only with AUDIT_RETENTION > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── event-bus (watermill admission.created / admissions.reloaded)
	│   └── websocket-hub (live feed at /api/v1/events/ws)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml, .env and environment
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB or PostgreSQL, migrations applied at open
 4. Event bus and CSV pipeline (Badger or in-memory run history)
 5. Audit trail: audit_events table, bus subscribers and the auth error hook
 6. Authentication: JWT and Casbin when AUTH_MODE=jwt
 7. HTTP router: chi with request IDs, CORS, rate limiting and metrics
 8. Supervisor tree

# Configuration

	HTTP_PORT=8000               # listener port
	DATABASE_DRIVER=duckdb       # duckdb or postgres
	DUCKDB_PATH=admissions.duckdb
	DATABASE_DSN=postgres://...  # postgres only
	IMPORT_SOURCE_PATH=final_readmit_df.csv
	IMPORT_LOAD_ON_START=false
	AUTH_MODE=none               # none or jwt
	JWT_SECRET=<32+ chars>
	AUDIT_ENABLED=true
	AUDIT_RETENTION=2160h        # 0 keeps events forever
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for SHUTDOWN_TIMEOUT, then queued audit events are flushed and the
event bus and database are closed.
*/
package main
