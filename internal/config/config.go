// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package config

import (
	"fmt"
	"time"
)

// Database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Auth modes.
const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

// Config holds all application configuration. It is immutable after Load
// and safe for concurrent reads.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Import   ImportConfig   `koanf:"import"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig selects and tunes the admission store.
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	Path         string        `koanf:"path"` // DuckDB file or ":memory:"
	DSN          string        `koanf:"dsn"`  // Postgres only
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = runtime.NumCPU()
	MaxOpenConns int           `koanf:"max_open_conns"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds cross-cutting HTTP middleware settings.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ReportCacheTTL bounds how long report results are reused. 0 turns
	// the cache off.
	ReportCacheTTL time.Duration `koanf:"report_cache_ttl"`
}

// ImportConfig holds settings for the CSV loader.
type ImportConfig struct {
	SourcePath string `koanf:"source_path"`
	BatchSize  int    `koanf:"batch_size"`

	// ProgressPath is a Badger directory for run history. Empty keeps
	// history in memory for the life of the process.
	ProgressPath string `koanf:"progress_path"`

	// LoadOnStart makes the server run one load from SourcePath at startup.
	LoadOnStart bool `koanf:"load_on_start"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	AuthMode         string        `koanf:"auth_mode"`
	JWTSecret        string        `koanf:"jwt_secret"`
	TokenTTL         time.Duration `koanf:"token_ttl"`
	CasbinModelPath  string        `koanf:"casbin_model_path"`  // empty = embedded model
	CasbinPolicyPath string        `koanf:"casbin_policy_path"` // empty = embedded policy
}

// AuditConfig controls the audit trail.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Retention       time.Duration `koanf:"retention"` // 0 = keep forever
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	BufferSize      int           `koanf:"buffer_size"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
