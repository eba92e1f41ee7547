// Package migrations embeds the workouts schema and applies it to a SQLite
// database. The job migrates on every start, so an already current schema is
// not an error.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var schemaFS embed.FS

// Run applies every pending workouts schema version.
func Run(dbx *sqlx.DB) error {
	m, err := newMigrator(dbx)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error applying workouts schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("error reading workouts schema version: %w", err)
	}
	slog.Debug("workouts schema ready", "version", version, "dirty", dirty)

	return nil
}

// Version reports the applied schema version. A database that was never
// migrated reports zero.
func Version(dbx *sqlx.DB) (uint, error) {
	m, err := newMigrator(dbx)
	if err != nil {
		return 0, err
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading workouts schema version: %w", err)
	}

	return version, nil
}

func newMigrator(dbx *sqlx.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFS, ".")
	if err != nil {
		return nil, fmt.Errorf("error loading embedded workouts schema: %w", err)
	}

	// Never Close the migrator: that would close the caller's connection.
	driver, err := sqlite.WithInstance(dbx.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("error preparing sqlite for workouts schema: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("error building workouts schema migrator: %w", err)
	}

	return m, nil
}
