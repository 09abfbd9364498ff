package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded goose migration files rooted at the
// migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// MigrationResult is one applied migration.
type MigrationResult struct {
	Version int64
	Path    string
}

var newProvider = func(database *sql.DB, fsys fs.FS) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, database, fsys)
}

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// RunMigrations applies all pending migrations and reports what it applied.
func RunMigrations(ctx context.Context, database *sql.DB) ([]MigrationResult, error) {
	provider, err := newProvider(database, Migrations())
	if err != nil {
		return nil, fmt.Errorf("init migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	applied := make([]MigrationResult, 0, len(results))
	for _, result := range results {
		if result == nil || result.Source == nil {
			continue
		}
		applied = append(applied, MigrationResult{Version: result.Source.Version, Path: result.Source.Path})
	}

	return applied, nil
}
