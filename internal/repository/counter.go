package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
)

// CounterRepository mints monotonic sequence numbers keyed by name.
type CounterRepository struct {
	db *pgxpool.Pool
}

// NewCounterRepository constructs a CounterRepository.
func NewCounterRepository(db *pgxpool.Pool) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next atomically increments the named counter and returns the new value.
// The first call for a name returns 1.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO counters (name, seq) VALUES ($1, 1)
		 ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		 RETURNING seq`, name).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return seq, nil
}
