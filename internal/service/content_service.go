package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

type ContentService interface {
	Create(ctx context.Context, userID int64, cc *transfer.ContentCreation) (int64, error)
	Info(ctx context.Context, userID, contentID int64) (*models.ContentItem, error)
	List(ctx context.Context, userID, campaignID int64) ([]*models.ContentItem, error)
	// Transition applies a user action from the approval workflow.
	Transition(ctx context.Context, userID, contentID int64, action status.Action) (*models.ContentItem, error)
	// TransitionBulk applies the same action per item and reports per-item
	// outcomes; one invalid item never fails the batch.
	TransitionBulk(ctx context.Context, userID int64, contentIDs []int64, action status.Action) []transfer.TransitionResult
}

type contentService struct {
	cr repository.ContentRepository
	cp repository.CampaignRepository
}

func NewContentService(cr repository.ContentRepository, cp repository.CampaignRepository) ContentService {
	return &contentService{cr: cr, cp: cp}
}

func (s *contentService) Create(ctx context.Context, userID int64, cc *transfer.ContentCreation) (int64, error) {
	owns, err := s.cp.CheckByUserID(ctx, cc.CampaignID, userID)
	if err != nil {
		return 0, err
	}
	if !owns {
		return 0, fmt.Errorf("campaign %d: %w", cc.CampaignID, ErrPermissionDenied)
	}

	item := &models.ContentItem{
		CampaignID:  cc.CampaignID,
		ContentType: cc.ContentType,
		Title:       cc.Title,
		Body:        cc.Body,
		Status:      models.ContentStatusDraft,
	}

	id, err := s.cr.Create(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("error creating content item: %w", err)
	}
	return id, nil
}

func (s *contentService) Info(ctx context.Context, userID, contentID int64) (*models.ContentItem, error) {
	item, err := s.ownedItem(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *contentService) List(ctx context.Context, userID, campaignID int64) ([]*models.ContentItem, error) {
	owns, err := s.cp.CheckByUserID(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("campaign %d: %w", campaignID, ErrPermissionDenied)
	}
	return s.cr.ListByCampaignID(ctx, campaignID)
}

func (s *contentService) Transition(ctx context.Context, userID, contentID int64, action status.Action) (*models.ContentItem, error) {
	if !status.IsUserContentAction(action) {
		return nil, &status.InvalidTransitionError{Action: action, From: "user request"}
	}

	item, err := s.ownedItem(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	next, err := status.NextContentStatus(item.Status, action)
	if err != nil {
		return nil, err
	}

	applied, err := s.cr.UpdateStatusIf(ctx, item.ID, item.Status, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone moved the item between read and write.
		return nil, fmt.Errorf("content item %d changed concurrently: %w", item.ID, ErrConflict)
	}

	item.Status = next
	return item, nil
}

func (s *contentService) TransitionBulk(ctx context.Context, userID int64, contentIDs []int64, action status.Action) []transfer.TransitionResult {
	results := make([]transfer.TransitionResult, 0, len(contentIDs))
	for _, id := range contentIDs {
		item, err := s.Transition(ctx, userID, id, action)
		if err != nil {
			slog.Info("bulk transition item failed", "content_id", id, "error", err)
			results = append(results, transfer.TransitionResult{ContentID: id, Error: err.Error()})
			continue
		}
		results = append(results, transfer.TransitionResult{ContentID: id, Status: item.Status})
	}
	return results
}

func (s *contentService) ownedItem(ctx context.Context, userID, contentID int64) (*models.ContentItem, error) {
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
