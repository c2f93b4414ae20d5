package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository hands out per-cart sequence numbers for the activity stream.
// Each cart is its own partition: consumers can order one cart's line
// changes without any global ordering guarantee. The counter lives in
// Postgres so it survives restarts and is shared across instances.
type Repository struct {
	db rowQuerier
}

func NewRepository(db rowQuerier) *Repository {
	return &Repository{db: db}
}

// Next advances the cart's activity sequence and returns the new value.
// The upsert makes first use and increment a single atomic statement.
func (r *Repository) Next(ctx context.Context, cartID string) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_sequence (partition_key, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (partition_key) DO UPDATE
		SET last_sequence = event_sequence.last_sequence + 1, updated_at = now()
		RETURNING last_sequence
	`, cartID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("advance sequence for cart %s: %w", cartID, err)
	}
	return seq, nil
}
