package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/transfer"
)

type NotificationService interface {
	// Dispatch persists a notification for the target user. An unknown
	// recipient is dropped with a warning; this is a best-effort side
	// channel, not a transactional guarantee.
	Dispatch(ctx context.Context, nc *transfer.NotificationCreation) error
	List(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationService struct {
	nr repository.NotificationRepository
	ur repository.UserRepository
}

func NewNotificationService(nr repository.NotificationRepository, ur repository.UserRepository) NotificationService {
	return &notificationService{nr: nr, ur: ur}
}

func (s *notificationService) Dispatch(ctx context.Context, nc *transfer.NotificationCreation) error {
	_, ok, err := s.ur.GetByID(ctx, nc.UserID)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("dropping notification for unknown user", "user_id", nc.UserID, "type", nc.Type)
		return nil
	}

	notification := &models.Notification{
		UserID:  nc.UserID,
		Type:    nc.Type,
		Title:   nc.Title,
		Message: nc.Message,
		Data:    nc.Data,
	}

	// A persistence failure propagates to the task runner's retry policy.
	_, err = s.nr.Create(ctx, notification)
	return err
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	notifications, err := s.nr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if notificationID == 0 {
		return fmt.Errorf("notification id: %w", ErrInvalidPayload)
	}
	return s.nr.MarkRead(ctx, notificationID, userID)
}
