// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the store selected by the database url (PostgreSQL pool or bolt file)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/cosmic-travel/internal/config"
	"github.com/deppfellow/cosmic-travel/internal/database"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/cosmic-travel/internal/logger"
)

// MigrationTimeout bounds schema bootstrap at startup.
const MigrationTimeout = 30 * time.Second

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Exactly one of DB and Files is set,
// and Store points at it.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Files holds the bolt file store.
	Files *database.FileStore

	// Store is whichever backend is active.
	Store database.Backend

	httpServer *http.Server
}

// New constructs a Server and opens the configured store.
//
// A PostgreSQL url is migrated to the latest schema before the pool is
// opened. A bolt path is created if missing.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	target, err := database.ParseURL(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch target.Driver {
	case database.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), MigrationTimeout)
		defer cancel()

		if err := database.Migrate(ctx, logger, target.DSN); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		db, err := database.New(cfg, target.DSN, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
		server.Store = db

	case database.DriverBolt:
		files, err := database.OpenFileStore(target.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		server.Files = files
		server.Store = files
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", string(s.Store.Driver())).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server (finishing inflight requests
// until ctx deadline) and then closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
