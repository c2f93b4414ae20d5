package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver for the migration handle
)

// NewPool opens the pgx pool shared by the session store and the activity
// sequence counter.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse session db dsn: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// openMigrationDB opens the database/sql handle golang-migrate drives.
// Kept separate from the pgx pool: migrate speaks database/sql only.
func openMigrationDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}
