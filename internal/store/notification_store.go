package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/task-delegation/internal/feed"
	"github.com/nhle/task-delegation/internal/model"
)

// CreateNotification inserts a new notification record addressed to a
// single recipient. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.UserID == "" {
		return model.Notification{}, fmt.Errorf("notification recipient must not be empty")
	}
	if n.Type != model.NotificationTaskAssignment && n.Type != model.NotificationTaskResponse {
		return model.Notification{}, fmt.Errorf("invalid notification type %q", n.Type)
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Read = false
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, related_id, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID,
		boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("creating notification: %w", err)
	}

	s.publish(TableNotifications, feed.EventInsert, n.ID)
	return n, nil
}

// GetUnreadNotifications retrieves the user's notifications that have
// not been read, newest first.
func (s *SQLiteStore) GetUnreadNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notifications WHERE user_id = ? AND read = 0 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("marking notification %s as read: %w", id, ErrNotFound)
	}

	s.publish(TableNotifications, feed.EventUpdate, id)
	return nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n       model.Notification
		typ     string
		readInt int
	)

	err := rows.Scan(
		&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.RelatedID,
		&readInt, &n.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Type = model.NotificationType(typ)
	n.Read = readInt != 0
	return n, nil
}
