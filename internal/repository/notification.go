package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = model.NotificationGeneral
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO notifications (id, message, type, read, created_at) VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.Message, string(n.Type), n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns one page of notifications, newest first, and the total count.
func (r *NotificationRepository) List(ctx context.Context, page, limit int) ([]model.Notification, int64, error) {
	query, args, err := dialect.From("notifications").
		Select("id", "message", "type", "read", "created_at").
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build notification list: %w", err)
	}

	conn := database.Conn(ctx, r.db)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n   model.Notification
			typ string
		)
		if err := rows.Scan(&n.ID, &n.Message, &typ, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = model.NotificationType(typ)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return out, total, nil
}

// SetRead flips the read flag and returns the updated notification.
func (r *NotificationRepository) SetRead(ctx context.Context, id string, read bool) (*model.Notification, error) {
	var (
		n   model.Notification
		typ string
	)
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`UPDATE notifications SET read = $2 WHERE id::text = $1
		 RETURNING id, message, type, read, created_at`, id, read,
	).Scan(&n.ID, &n.Message, &typ, &n.Read, &n.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update notification: %w", err)
	}
	n.Type = model.NotificationType(typ)
	return &n, nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	tag, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
