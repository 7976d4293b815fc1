package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/cosmic-travel/internal/config"
	"github.com/deppfellow/cosmic-travel/internal/database"
	"github.com/deppfellow/cosmic-travel/internal/handler"
	"github.com/deppfellow/cosmic-travel/internal/logger"
	"github.com/deppfellow/cosmic-travel/internal/repository"
	"github.com/deppfellow/cosmic-travel/internal/router"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "cosmic-travel",
		Short:         "Scientists, planets and the missions between them",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		seedCommand(),
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the schema of the configured store and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context())
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}

// open builds the server and the service layer on the configured store.
func open() (*server.Server, *service.Services, zerolog.Logger, func(), error) {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return nil, nil, log, nil, err
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, nil, log, nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	closeAll := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
		loggerService.Shutdown()
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		closeAll()
		return nil, nil, log, nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	services, err := service.NewService(repos)
	if err != nil {
		closeAll()
		return nil, nil, log, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return srv, services, log, closeAll, nil
}

func serve() error {
	srv, services, log, closeAll, err := open()
	if err != nil {
		return err
	}
	defer closeAll()

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	return nil
}

func seedCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample planets, scientists and missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, services, log, closeAll, err := open()
			if err != nil {
				return err
			}
			defer closeAll()

			report, err := service.NewSeeder(services).Seed(cmd.Context(), service.DefaultSeedData(), reset)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}

			for _, m := range report.Missions {
				log.Info().
					Int64("mission_id", m.ID).
					Str("mission", m.Name).
					Str("scientist", m.Scientist.Name).
					Str("planet", m.Planet.Name).
					Msg("seeded mission")
			}
			for planet, visitors := range report.Visits {
				log.Info().Str("planet", planet).Strs("scientists", visitors).Msg("planet visitors")
			}
			for scientist, planets := range report.Destinations {
				log.Info().Str("scientist", scientist).Strs("planets", planets).Msg("scientist destinations")
			}

			log.Info().
				Int("removed_scientists", report.Removed.Scientists).
				Int("removed_planets", report.Removed.Planets).
				Int("missions", len(report.Missions)).
				Msg("seed complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete every scientist and planet before seeding")
	return cmd
}

// migrate applies the embedded migrations on PostgreSQL. A bolt store only
// needs its buckets, which opening it creates.
func migrate(ctx context.Context) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	target, err := database.ParseURL(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}

	switch target.Driver {
	case database.DriverPostgres:
		ctx, cancel := context.WithTimeout(ctx, server.MigrationTimeout)
		defer cancel()
		return database.Migrate(ctx, &log, target.DSN)
	default:
		files, err := database.OpenFileStore(target.DSN, &log)
		if err != nil {
			return err
		}
		log.Info().Str("path", target.DSN).Msg("file store ready")
		return files.Close()
	}
}
