package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/campflowhq/campflow/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO notifications (user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, dataJSON).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		var data []byte
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.Read, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				slog.Info(err.Error())
				return nil, err
			}
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE notifications
		SET read = TRUE,
			read_at = $1
		WHERE id = $2 AND user_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
