package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies pending migrations. Calling it on an up-to-date schema is a no-op.
func MigrateUp(pool *pgxpool.Pool) error {
	m, closeFn, err := newMigrator(pool)
	if err != nil {
		return err
	}
	defer closeFn()

	current := uint(0)
	if v, dirty, verr := m.Version(); verr == nil {
		current = v
		slog.Info("migrations: current schema version", "version", v, "dirty", dirty)
	} else if errors.Is(verr, migrate.ErrNilVersion) {
		slog.Info("migrations: fresh database")
	} else {
		return fmt.Errorf("migrations: read version: %w", verr)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("migrations: schema is up to date", "version", current)
			return nil
		}
		return fmt.Errorf("migrations: apply: %w", err)
	}

	if v, _, err := m.Version(); err == nil {
		slog.Info("migrations: applied", "version", v)
	}
	return nil
}

// MigrateDown rolls back the given number of steps.
func MigrateDown(pool *pgxpool.Pool, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migrations: steps must be positive, got %d", steps)
	}

	m, closeFn, err := newMigrator(pool)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: rollback: %w", err)
	}
	return nil
}

func newMigrator(pool *pgxpool.Pool) (*migrate.Migrate, func(), error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrations: create pgx driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrations: open embedded files: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrations: init: %w", err)
	}

	// closing sqlDB leaves the pool open
	return m, func() {
		_, _ = m.Close()
		_ = sqlDB.Close()
	}, nil
}
