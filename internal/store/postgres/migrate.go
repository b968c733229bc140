package postgres

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pkgerrors "github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every pending schema migration. It returns the schema
// version after the run.
func (s *Store) Migrate() (uint, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return 0, pkgerrors.Wrap(err, "open embedded migrations")
	}
	driver, err := migratepgx.WithInstance(s.db, &migratepgx.Config{})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "init migrate driver")
	}
	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "init migrator")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, pkgerrors.Wrap(err, "apply migrations")
	}
	version, _, err := m.Version()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "read schema version")
	}
	return version, nil
}
