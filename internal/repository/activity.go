package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// ActivityRepository appends and reads the gate activity log.
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes one activity entry.
func (r *ActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO activities (id, visitor_id, name, action, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.VisitorID, a.Name, string(a.Action), a.Timestamp)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT id, visitor_id, name, action, timestamp
		 FROM activities
		 ORDER BY timestamp DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var (
			a      model.Activity
			action string
		)
		if err := rows.Scan(&a.ID, &a.VisitorID, &a.Name, &action, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Action = model.ActivityAction(action)
		out = append(out, a)
	}
	return out, rows.Err()
}
