package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

const scheduledTimeLayout = "2006-01-02T15:04"

type PublicationService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PublicationCreation) (int64, error)
	Schedule(ctx context.Context, userID int64, sr *transfer.ScheduleRequest) error
	List(ctx context.Context, userID, contentID int64) ([]*models.Publication, error)
}

type publicationService struct {
	pr repository.PublicationRepository
	cr repository.ContentRepository
	cp repository.CampaignRepository
	ac repository.SocialAccountRepository
}

func NewPublicationService(
	pr repository.PublicationRepository,
	cr repository.ContentRepository,
	cp repository.CampaignRepository,
	ac repository.SocialAccountRepository) PublicationService {
	return &publicationService{
		pr: pr,
		cr: cr,
		cp: cp,
		ac: ac,
	}
}

func (s *publicationService) Create(ctx context.Context, userID int64, pc *transfer.PublicationCreation) (int64, error) {
	item, err := s.ownedContent(ctx, userID, pc.ContentID)
	if err != nil {
		return 0, err
	}

	owns, err := s.ac.CheckByUserID(ctx, pc.AccountID, userID)
	if err != nil {
		return 0, err
	}
	if !owns {
		return 0, fmt.Errorf("social account %d: %w", pc.AccountID, ErrNotFound)
	}

	account, ok, err := s.ac.GetByID(ctx, pc.AccountID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("social account %d: %w", pc.AccountID, ErrNotFound)
	}

	pub := &models.Publication{
		ContentID: item.ID,
		AccountID: account.ID,
		Platform:  account.Platform,
		Status:    models.PublicationStatusDraft,
	}

	if pc.ScheduledAt != "" {
		scheduledAt, err := s.parseFutureTime(pc.ScheduledAt)
		if err != nil {
			return 0, err
		}
		pub.Status = models.PublicationStatusScheduled
		pub.ScheduledAt = &scheduledAt
	}

	id, err := s.pr.Create(ctx, pub)
	if err != nil {
		return 0, fmt.Errorf("error creating publication: %w", err)
	}
	return id, nil
}

func (s *publicationService) Schedule(ctx context.Context, userID int64, sr *transfer.ScheduleRequest) error {
	pub, ok, err := s.pr.GetByID(ctx, sr.PublicationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("publication %d: %w", sr.PublicationID, ErrNotFound)
	}

	if _, err := s.ownedContent(ctx, userID, pub.ContentID); err != nil {
		return err
	}

	if _, err := status.NextPublicationStatus(pub.Status, status.ActionSchedule); err != nil {
		return err
	}

	scheduledAt, err := s.parseFutureTime(sr.ScheduledAt)
	if err != nil {
		return err
	}

	applied, err := s.pr.Schedule(ctx, pub.ID, scheduledAt)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("publication %d changed concurrently: %w", pub.ID, ErrConflict)
	}
	return nil
}

func (s *publicationService) List(ctx context.Context, userID, contentID int64) ([]*models.Publication, error) {
	if _, err := s.ownedContent(ctx, userID, contentID); err != nil {
		return nil, err
	}
	return s.pr.ListByContentID(ctx, contentID)
}

func (s *publicationService) ownedContent(ctx context.Context, userID, contentID int64) (*models.ContentItem, error) {
	item, ok, err := s.cr.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("content item %d: %w", contentID, ErrNotFound)
	}

	owns, err := s.cp.CheckByUserID(ctx, item.CampaignID, userID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("campaign %d: %w", item.CampaignID, ErrPermissionDenied)
	}
	return item, nil
}

func (s *publicationService) parseFutureTime(value string) (time.Time, error) {
	scheduledAt, err := time.Parse(scheduledTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid scheduled time format", ErrInvalidPayload)
	}
	if !scheduledAt.After(time.Now()) {
		return time.Time{}, fmt.Errorf("%w: scheduled time must be in the future", ErrInvalidPayload)
	}
	return scheduledAt, nil
}
