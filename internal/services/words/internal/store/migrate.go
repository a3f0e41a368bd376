package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to date. It runs on a dedicated connection
// pool because closing the migrator closes the pool it was given.
func (s *SQLStore) Migrate() error {
	m, err := s.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("catalog schema ready", "dialect", s.dialect.Name(), "version", v, "dirty", dirty)
	return nil
}

func (s *SQLStore) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations/"+s.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	db, err := sql.Open(s.dialect.DriverName(), s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}

	drv, err := s.dialect.MigrationDriver(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, s.dialect.Name(), drv)
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func (s *SQLStore) migrationsDir() string {
	if s.dialect.Name() == "postgres" {
		return "postgres"
	}
	return "sqlite"
}
