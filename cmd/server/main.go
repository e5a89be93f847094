// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/admissions/docs" // Import generated swagger docs
	"github.com/tomtom215/admissions/internal/api"
	"github.com/tomtom215/admissions/internal/audit"
	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/authz"
	"github.com/tomtom215/admissions/internal/cache"
	"github.com/tomtom215/admissions/internal/config"
	"github.com/tomtom215/admissions/internal/database"
	"github.com/tomtom215/admissions/internal/events"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/supervisor"
	"github.com/tomtom215/admissions/internal/supervisor/services"
	"github.com/tomtom215/admissions/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("source", cfg.Import.SourcePath).
		Msg("Starting Admissions API")

	if err := serve(cfg); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}

// serve builds every component, runs the supervisor tree until a signal
// arrives and releases resources on the way out.
func serve(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	bus := events.NewBus(events.DefaultConfig())
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	progress, closeProgress, err := ingest.OpenProgress(cfg.Import.ProgressPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProgress(); err != nil {
			logging.Warn().Err(err).Msg("Error closing load history")
		}
	}()

	pipeline := ingest.NewPipeline(db, ingest.Options{
		BatchSize: cfg.Import.BatchSize,
		Progress:  progress,
		Publisher: bus,
	})

	handler := api.NewHandler(db)
	handler.SetEventPublisher(bus)
	handler.SetLoader(pipeline, cfg.Import.SourcePath)

	if ttl := cfg.API.ReportCacheTTL; ttl > 0 {
		reports := cache.New[any](ttl)
		defer reports.Close()
		handler.SetReportCache(reports)
		handler.SetDataVersion(db)

		// Loads that bypass the API (the startup load) still reach the cache.
		bus.OnReloaded("invalidate-report-cache", func(events.AdmissionsReloaded, events.Meta) {
			handler.InvalidateReports()
		})
		logging.Info().Dur("ttl", ttl).Msg("Report cache enabled")
	}

	hub := websocket.NewHub()
	hub.Subscribe(bus)
	handler.SetEventStream(hub, cfg.API.CORSOrigins)

	auditLog, err := setupAudit(&cfg.Audit, db, bus)
	if err != nil {
		return err
	}
	onAuthError := auth.ErrorWriter(api.WriteError)
	if auditLog != nil {
		defer auditLog.Close()
		handler.SetAuditReader(auditLog)
		onAuthError = auditLog.ErrorWriter(api.WriteError)
	}

	authn, authzMW, err := setupAuth(&cfg.Security, onAuthError)
	if err != nil {
		return err
	}

	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromAPI(&cfg.API)), authn, authzMW)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	// Data layer
	if cfg.Import.LoadOnStart {
		pipeline.LogPrevious(context.Background())
		tree.MustAdd(supervisor.LayerData, services.NewLoadService(pipeline, cfg.Import.SourcePath, bus.Running()))
		logging.Info().Str("source", cfg.Import.SourcePath).Msg("Startup load scheduled")
	}
	if auditLog != nil && cfg.Audit.Retention > 0 {
		tree.MustAdd(supervisor.LayerData, auditLog)
	}

	// Messaging layer
	tree.MustAdd(supervisor.LayerMessaging, bus)
	tree.MustAdd(supervisor.LayerMessaging, hub)

	// API layer
	tree.MustAdd(supervisor.LayerAPI, services.NewAPIServer(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// setupAudit creates the audit trail on the admission database and
// subscribes it to the bus. It returns nil when auditing is off.
func setupAudit(cfg *config.AuditConfig, db *database.DB, bus *events.Bus) (*audit.Logger, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Audit trail disabled")
		return nil, nil
	}

	store := audit.NewSQLStore(db.Conn())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.CreateTable(ctx); err != nil {
		return nil, err
	}

	logger := audit.NewLogger(store, &audit.Config{
		Enabled:         true,
		Retention:       cfg.Retention,
		CleanupInterval: cfg.CleanupInterval,
		BufferSize:      cfg.BufferSize,
	})
	logger.Subscribe(bus)
	logging.Info().Dur("retention", cfg.Retention).Msg("Audit trail enabled")
	return logger, nil
}

// setupAuth returns the authentication and authorization middleware. Both
// are nil when authentication is off.
func setupAuth(sec *config.SecurityConfig, onError auth.ErrorWriter) (*auth.Middleware, *authz.Middleware, error) {
	if sec.AuthMode != config.AuthModeJWT {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  All /api endpoints are publicly accessible.")
		logging.Warn().Msg("============================================================")
		return nil, nil, nil
	}

	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return nil, nil, err
	}
	enforcer, err := authz.NewEnforcer(sec)
	if err != nil {
		return nil, nil, err
	}
	logging.Info().Msg("JWT authentication and RBAC enabled")

	return auth.NewMiddleware(jwtManager, sec.AuthMode, onError),
		authz.NewMiddleware(enforcer, onError), nil
}
