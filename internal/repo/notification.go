package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, kind, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, n.UserID, n.Kind, n.Title, n.Message, n.Data).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepo) FindForUser(ctx context.Context, userID string, q domain.NotificationsQuery) ([]domain.Notification, int64, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	if q.IsRead != nil {
		args = append(args, *q.IsRead)
		where += fmt.Sprintf(" AND is_read = $%d", len(args))
	}

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, user_id, kind, title, message, data, is_read, created_at, read_at
		FROM notifications %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Notification, error) {
		var n domain.Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Data, &n.IsRead, &n.CreatedAt, &n.ReadAt)
		return n, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE id = $1 AND user_id = $2 AND is_read = false
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE user_id = $1 AND is_read = false
	`, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
