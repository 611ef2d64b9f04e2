package service

import (
	"context"
	"fmt"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/transfer"
)

type CampaignService interface {
	Create(ctx context.Context, userID int64, cc *transfer.CampaignCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Campaign, error)
}

type campaignService struct {
	cp repository.CampaignRepository
}

func NewCampaignService(cp repository.CampaignRepository) CampaignService {
	return &campaignService{cp: cp}
}

func (s *campaignService) Create(ctx context.Context, userID int64, cc *transfer.CampaignCreation) (int64, error) {
	campaign := &models.Campaign{
		UserID:      userID,
		Name:        cc.Name,
		Description: cc.Description,
	}

	id, err := s.cp.Create(ctx, campaign)
	if err != nil {
		return 0, fmt.Errorf("error creating campaign: %w", err)
	}
	return id, nil
}

func (s *campaignService) List(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	campaigns, err := s.cp.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}
	return campaigns, nil
}
