package db

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var sessionSchema embed.FS

// RunMigrations brings the session_carts and event_sequence tables up to
// date from the embedded SQL. Runs once at startup, before the pool opens;
// safe to call on an already-current schema.
func RunMigrations(dsn string, logger *log.Logger) error {
	handle, err := openMigrationDB(dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer handle.Close()

	src, err := iofs.New(sessionSchema, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded schema: %w", err)
	}

	drv, err := postgres.WithInstance(handle, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply session schema: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		return fmt.Errorf("session schema dirty at version %d", version)
	}
	logger.Printf("session schema at version %d", version)

	return nil
}
