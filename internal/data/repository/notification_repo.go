package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]*entity.Notification, int64, error)
	FindUnread(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error)
	// MarkRead returns false when the notification is not the user's or is archived.
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	// Archive returns how many of ids belong to the user and are now archived.
	Archive(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

const notificationColumns = `id, user_id, title, message, notification_type, status, read_at, created_at`

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, notification_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.Status,
		n.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", n.UserID.String()),
		)
		return fmt.Errorf("create notification for user %s: %w", n.UserID.String(), err)
	}

	return nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]*entity.Notification, int64, error) {
	where := ` WHERE user_id = $1`
	if !includeArchived {
		where += ` AND status <> 'ARCHIVED'`
	}

	conn := database.Conn(ctx, r.db)

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	list, err := r.query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *notificationRepository) FindUnread(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND status = 'UNREAD'
		ORDER BY created_at DESC`

	return r.query(ctx, query, userID)
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET status = 'READ', read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2 AND status <> 'ARCHIVED'
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, userID, at)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return false, fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE notifications
		SET status = 'READ', read_at = $2
		WHERE user_id = $1 AND status = 'UNREAD'
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, at)
	if err != nil {
		r.log.Error("Failed to mark all notifications read",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) Archive(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `UPDATE notifications SET status = 'ARCHIVED' WHERE user_id = $1 AND id = ANY($2)`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, ids)
	if err != nil {
		r.log.Error("Failed to archive notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("count", len(ids)),
		)
		return 0, fmt.Errorf("archive notifications: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Notification, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query notifications", zap.Error(err))
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.Status,
			&n.ReadAt,
			&n.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}

	return list, rows.Err()
}
