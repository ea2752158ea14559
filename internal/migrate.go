package internal

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// The posts and templates schema ships embedded in the binary so a fresh
// deployment needs nothing beyond a reachable Postgres.
//
//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies any pending schema migrations. Safe to call on every
// startup; goose tracks applied versions in its own table.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
