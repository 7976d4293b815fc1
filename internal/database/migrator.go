package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Schema files are embedded so the binary bootstraps a fresh database
// without reading the filesystem.
//
//go:embed migrations/*.sql
var migrations embed.FS

// SchemaVersionTable records the applied migration sequence.
const SchemaVersionTable = "schema_version"

// Migrate creates the scientists, planets and missions tables on a
// PostgreSQL database, or brings an older schema to the latest version.
// It uses its own connection, the pool is opened afterwards.
func Migrate(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, SchemaVersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}
	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Debug().
			Int32("sequence", sequence).
			Str("migration", name).
			Str("direction", direction).
			Msg("applying migration")
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	latest := int32(len(m.Migrations))
	event := logger.Info().Int32("version", latest)
	if from == latest {
		event.Msg("database schema up to date")
	} else {
		event.Int32("from", from).Msg("migrated database schema")
	}
	return nil
}
