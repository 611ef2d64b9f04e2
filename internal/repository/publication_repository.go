package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/campflowhq/campflow/internal/models"
)

type PublicationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Publication, bool, error)
	Create(ctx context.Context, pub *models.Publication) (int64, error)
	ListByContentID(ctx context.Context, contentID int64) ([]*models.Publication, error)
	// FindDue returns every scheduled publication with scheduled_at <= now,
	// earliest first. No batch limit; the sweep consumes the whole result.
	FindDue(ctx context.Context, now time.Time) ([]*models.Publication, error)
	UpdateStatus(ctx context.Context, status string, id int64) error
	// Schedule moves a draft publication to scheduled; false when the row
	// was not in draft anymore.
	Schedule(ctx context.Context, id int64, scheduledAt time.Time) (bool, error)
	MarkPublished(ctx context.Context, id int64, externalPostID string, publishedAt time.Time) error
	// MarkFailed records the error and bumps retry_count by one.
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
}

type publicationRepository struct {
	db *sql.DB
}

func NewPublicationRepository(db *sql.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

const publicationColumns = `id, content_id, account_id, platform, status, external_post_id, scheduled_at, published_at, error_message, retry_count, created_at, updated_at`

func scanPublication(row interface{ Scan(...any) error }) (*models.Publication, error) {
	var pub models.Publication
	err := row.Scan(&pub.ID, &pub.ContentID, &pub.AccountID, &pub.Platform, &pub.Status,
		&pub.ExternalPostID, &pub.ScheduledAt, &pub.PublishedAt, &pub.ErrorMessage,
		&pub.RetryCount, &pub.CreatedAt, &pub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

func (r *publicationRepository) GetByID(ctx context.Context, id int64) (*models.Publication, bool, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE id = $1`
	pub, err := scanPublication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return pub, true, nil
}

func (r *publicationRepository) Create(ctx context.Context, pub *models.Publication) (int64, error) {
	query := `
		INSERT INTO publications (content_id, account_id, platform, status, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, pub.ContentID, pub.AccountID, pub.Platform, pub.Status, pub.ScheduledAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publicationRepository) ListByContentID(ctx context.Context, contentID int64) ([]*models.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE content_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var pubs []*models.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func (r *publicationRepository) FindDue(ctx context.Context, now time.Time) ([]*models.Publication, error) {
	query := `
		SELECT ` + publicationColumns + `
		FROM publications
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, models.PublicationStatusScheduled, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var pubs []*models.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func (r *publicationRepository) UpdateStatus(ctx context.Context, status string, id int64) error {
	query := `
		UPDATE publications
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

func (r *publicationRepository) Schedule(ctx context.Context, id int64, scheduledAt time.Time) (bool, error) {
	query := `
		UPDATE publications
		SET status = $1,
			scheduled_at = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	res, err := r.db.ExecContext(ctx, query, models.PublicationStatusScheduled, scheduledAt, time.Now(), id, models.PublicationStatusDraft)
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

func (r *publicationRepository) MarkPublished(ctx context.Context, id int64, externalPostID string, publishedAt time.Time) error {
	query := `
		UPDATE publications
		SET status = $1,
			external_post_id = $2,
			published_at = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PublicationStatusPublished, externalPostID, publishedAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *publicationRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `
		UPDATE publications
		SET status = $1,
			error_message = $2,
			retry_count = retry_count + 1,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PublicationStatusFailed, errorMessage, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
