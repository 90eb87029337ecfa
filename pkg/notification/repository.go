package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, notification Notification) (Notification, error)
	ListForUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userId int, notificationId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, notification Notification) (Notification, error) {
	query := `INSERT INTO notifications (user_id, kind, title, body, created_at) VALUES (?, ?, ?, ?, ?)`
	if notification.CreatedAt == "" {
		notification.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	result, err := r.db.ExecContext(ctx, query,
		notification.UserId, notification.Kind, notification.Title, notification.Body, notification.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not create notification: %w", err)
		log.Error(err)
		return Notification{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Notification{}, err
	}
	notification.Id = int(id)
	return notification, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	query := `SELECT id, user_id, kind, title, body, created_at, read_at
				FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query notifications: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var notification Notification
		var readAt sql.NullString
		if err := rows.Scan(&notification.Id, &notification.UserId, &notification.Kind,
			&notification.Title, &notification.Body, &notification.CreatedAt, &readAt); err != nil {
			err := fmt.Errorf("could not scan notification: %w", err)
			log.Error(err)
			return nil, err
		}
		if readAt.Valid {
			notification.ReadAt = readAt.String
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *RepositoryImpl) MarkRead(ctx context.Context, userId int, notificationId int) (bool, error) {
	query := `UPDATE notifications SET read_at = ? WHERE id = ? AND user_id = ? AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), notificationId, userId)
	if err != nil {
		err := fmt.Errorf("could not mark notification read: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}
