package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/campflowhq/campflow/internal/models"
)

type ContentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.ContentItem, bool, error)
	Create(ctx context.Context, item *models.ContentItem) (int64, error)
	ListByCampaignID(ctx context.Context, campaignID int64) ([]*models.ContentItem, error)
	UpdateStatus(ctx context.Context, status string, id int64) error
	// UpdateStatusIf writes the new status only when the row still holds the
	// expected one. Returns false when another writer got there first.
	UpdateStatusIf(ctx context.Context, id int64, expected, next string) (bool, error)
	// BeginGeneration moves the item to generating unless it already is.
	BeginGeneration(ctx context.Context, id int64) (bool, error)
	SetGeneratedBody(ctx context.Context, id int64, status, body string, meta *models.GenerationMeta) error
	SetGeneratedMedia(ctx context.Context, id int64, status, mediaURL string, meta *models.GenerationMeta) error
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, campaign_id, content_type, title, body, media_url, status, generation_meta, created_at, updated_at`

func scanContentItem(row interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var item models.ContentItem
	var meta []byte
	err := row.Scan(&item.ID, &item.CampaignID, &item.ContentType, &item.Title, &item.Body,
		&item.MediaURL, &item.Status, &meta, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &item.GenerationMeta); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	}
	return &item, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.ContentItem, bool, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`
	item, err := scanContentItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return item, true, nil
}

func (r *contentRepository) Create(ctx context.Context, item *models.ContentItem) (int64, error) {
	query := `
		INSERT INTO content_items (campaign_id, content_type, title, body, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, item.CampaignID, item.ContentType, item.Title, item.Body, item.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *contentRepository) ListByCampaignID(ctx context.Context, campaignID int64) ([]*models.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE campaign_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *contentRepository) UpdateStatus(ctx context.Context, status string, id int64) error {
	query := `
		UPDATE content_items
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *contentRepository) UpdateStatusIf(ctx context.Context, id int64, expected, next string) (bool, error) {
	query := `
		UPDATE content_items
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, next, time.Now(), id, expected)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *contentRepository) BeginGeneration(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE content_items
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status <> $1
	`
	res, err := r.db.ExecContext(ctx, query, models.ContentStatusGenerating, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *contentRepository) SetGeneratedBody(ctx context.Context, id int64, status, body string, meta *models.GenerationMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	query := `
		UPDATE content_items
		SET status = $1,
			body = $2,
			generation_meta = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err = r.db.ExecContext(ctx, query, status, body, metaJSON, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *contentRepository) SetGeneratedMedia(ctx context.Context, id int64, status, mediaURL string, meta *models.GenerationMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	query := `
		UPDATE content_items
		SET status = $1,
			media_url = $2,
			generation_meta = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err = r.db.ExecContext(ctx, query, status, mediaURL, metaJSON, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
