// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

/*
Package config loads configuration for the API server and the loader.

# Sources

Load layers four sources, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, else the first of config.yaml, config.yml,
    /etc/admissions/config.yaml that exists
 3. A .env file ($DOTENV_PATH, default .env). Variables already present in
    the process environment win over the file.
 4. Environment variables, mapped explicitly in envTransformFunc

# Environment Variables

Database:
  - DATABASE_DRIVER: duckdb or postgres (default: duckdb)
  - DUCKDB_PATH: DuckDB file, or :memory: (default: admissions.duckdb)
  - DATABASE_DSN: Postgres connection string (required for postgres)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DB_MAX_OPEN_CONNS, DB_QUERY_TIMEOUT

Server:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 8000)
  - HTTP_TIMEOUT (default: 30s), SHUTDOWN_TIMEOUT (default: 10s)

API:
  - CORS_ORIGINS: comma-separated list
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - REPORT_CACHE_TTL: report result reuse window, 0 disables (default 5m).
    Entries are keyed on the store's data version, so a cmd/loader run
    against a shared Postgres invalidates them on the next request.

Import:
  - IMPORT_SOURCE_PATH (default: final_readmit_df.csv)
  - IMPORT_BATCH_SIZE (default: 1000)
  - IMPORT_PROGRESS_PATH: Badger directory for run history (empty = memory)
  - IMPORT_LOAD_ON_START: server runs one load at startup (default: false)

Security:
  - AUTH_MODE: none or jwt (default: none)
  - JWT_SECRET: at least 32 characters when AUTH_MODE=jwt
  - TOKEN_TTL, CASBIN_MODEL_PATH, CASBIN_POLICY_PATH

Audit:
  - AUDIT_ENABLED (default: true)
  - AUDIT_RETENTION: age after which events are deleted, 0 keeps all (default: 2160h)
  - AUDIT_CLEANUP_INTERVAL (default: 24h), AUDIT_BUFFER_SIZE (default: 1000)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
