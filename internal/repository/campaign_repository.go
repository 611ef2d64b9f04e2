package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/campflowhq/campflow/internal/models"
)

type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error)
	Create(ctx context.Context, campaign *models.Campaign) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error)
	CheckByUserID(ctx context.Context, campaignID, userID int64) (bool, error)
}

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error) {
	var campaign models.Campaign
	query := `SELECT id, user_id, name, description, created_at, updated_at FROM campaigns WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&campaign.ID, &campaign.UserID, &campaign.Name,
		&campaign.Description, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &campaign, true, nil
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) (int64, error) {
	query := `INSERT INTO campaigns (user_id, name, description) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, campaign.UserID, campaign.Name, campaign.Description).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *campaignRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	query := `SELECT id, user_id, name, description, created_at, updated_at FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		var campaign models.Campaign
		err := rows.Scan(&campaign.ID, &campaign.UserID, &campaign.Name, &campaign.Description,
			&campaign.CreatedAt, &campaign.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		campaigns = append(campaigns, &campaign)
	}
	return campaigns, nil
}

func (r *campaignRepository) CheckByUserID(ctx context.Context, campaignID, userID int64) (bool, error) {
	query := `SELECT 1 FROM campaigns WHERE id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, campaignID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
