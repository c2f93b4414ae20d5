package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists session -> cart mappings in the session_carts
// table. Last write wins; each session only ever writes its own resolved id
// so no locking is needed beyond the upsert.
type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var cartID string
	row := s.pool.QueryRow(ctx, `SELECT cart_id FROM session_carts WHERE session_key=$1`, key)
	if err := row.Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return cartID, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_carts(session_key, cart_id)
		VALUES($1, $2)
		ON CONFLICT (session_key) DO UPDATE SET cart_id=EXCLUDED.cart_id, updated_at=now()
	`, key, value)
	return err
}
