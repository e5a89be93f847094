// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/logging"
)

// DB wraps the store connection and provides data access methods
type DB struct {
	conn         *sqlx.DB
	cfg          *config.DatabaseConfig
	driver       string
	queryTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[any]

	// writes admits one write transaction at a time. Every write bumps the
	// same data version row, which DuckDB would otherwise abort as a
	// conflict between concurrent transactions.
	writes chan struct{}
}

// New opens the configured store and applies pending migrations.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is nil")
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverDuckDB
	}

	dsn, err := connString(driver, cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:         conn,
		cfg:          cfg,
		driver:       driver,
		queryTimeout: cfg.QueryTimeout,
		breaker:      newBreaker(breakerName),
		writes:       make(chan struct{}, 1),
	}

	db.configureConnectionPool()

	ctx, cancel := schemaContext()
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := db.runMigrations(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("driver", driver).
		Str("path", displayTarget(driver, cfg)).
		Msg("Admission store opened")

	return db, nil
}

// connString builds the driver DSN. DuckDB tuning options ride on the
// path as query parameters.
func connString(driver string, cfg *config.DatabaseConfig) (string, error) {
	switch driver {
	case config.DriverDuckDB:
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		if path != ":memory:" {
			// 0750 per gosec G301
			if dir := filepath.Dir(path); dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
				}
			}
		}
		threads := cfg.Threads
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		maxMemory := cfg.MaxMemory
		if maxMemory == "" {
			maxMemory = "1GB"
		}
		return fmt.Sprintf("%s?threads=%d&max_memory=%s", path, threads, maxMemory), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return "", fmt.Errorf("postgres driver requires a DSN")
		}
		return cfg.DSN, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func displayTarget(driver string, cfg *config.DatabaseConfig) string {
	if driver == config.DriverPostgres {
		return "postgres"
	}
	return cfg.Path
}

// configureConnectionPool sizes the pool. DuckDB serializes writers inside
// the engine, so a small pool keeps memory flat without hurting reads.
func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU() * 2
	}
	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(maxOpen)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Driver returns the active driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying sqlx handle.
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

// Ping checks the store is reachable. Used by the readiness check.
func (db *DB) Ping(ctx context.Context) error {
	if db == nil || db.conn == nil {
		return ErrNilDB
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
