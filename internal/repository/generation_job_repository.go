package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/campflowhq/campflow/internal/models"
)

type GenerationJobRepository interface {
	GetByID(ctx context.Context, id int64) (*models.GenerationJob, bool, error)
	Create(ctx context.Context, job *models.GenerationJob) (int64, error)
	ListByContentID(ctx context.Context, contentID int64) ([]*models.GenerationJob, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.GenerationJob, error)
	MarkProcessing(ctx context.Context, id int64) error
	// Complete and Fail write a terminal state exactly once: they only touch
	// rows still in pending/processing and report whether they applied.
	Complete(ctx context.Context, id int64, result string, tokensUsed int, processingTimeMs int64) (bool, error)
	Fail(ctx context.Context, id int64, errorMessage string) (bool, error)
}

type generationJobRepository struct {
	db *sql.DB
}

func NewGenerationJobRepository(db *sql.DB) GenerationJobRepository {
	return &generationJobRepository{db: db}
}

const jobColumns = `id, content_id, user_id, provider, prompt, options, status, result, tokens_used, processing_time_ms, error_message, created_at, updated_at, completed_at`

func scanGenerationJob(row interface{ Scan(...any) error }) (*models.GenerationJob, error) {
	var job models.GenerationJob
	var options []byte
	err := row.Scan(&job.ID, &job.ContentID, &job.UserID, &job.Provider, &job.Prompt, &options,
		&job.Status, &job.Result, &job.TokensUsed, &job.ProcessingTimeMs, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &job.Options); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
	}
	return &job, nil
}

func (r *generationJobRepository) GetByID(ctx context.Context, id int64) (*models.GenerationJob, bool, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE id = $1`
	job, err := scanGenerationJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return job, true, nil
}

func (r *generationJobRepository) Create(ctx context.Context, job *models.GenerationJob) (int64, error) {
	optionsJSON, err := json.Marshal(job.Options)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO generation_jobs (content_id, user_id, provider, prompt, options, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRowContext(ctx, query, job.ContentID, job.UserID, job.Provider, job.Prompt, optionsJSON, job.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *generationJobRepository) listBy(ctx context.Context, query string, arg int64) ([]*models.GenerationJob, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.GenerationJob
	for rows.Next() {
		job, err := scanGenerationJob(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *generationJobRepository) ListByContentID(ctx context.Context, contentID int64) ([]*models.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE content_id = $1 ORDER BY created_at DESC`
	return r.listBy(ctx, query, contentID)
}

func (r *generationJobRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listBy(ctx, query, userID)
}

func (r *generationJobRepository) MarkProcessing(ctx context.Context, id int64) error {
	query := `
		UPDATE generation_jobs
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.JobStatusProcessing, time.Now(), id, models.JobStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *generationJobRepository) Complete(ctx context.Context, id int64, result string, tokensUsed int, processingTimeMs int64) (bool, error) {
	now := time.Now()
	query := `
		UPDATE generation_jobs
		SET status = $1,
			result = $2,
			tokens_used = $3,
			processing_time_ms = $4,
			updated_at = $5,
			completed_at = $5
		WHERE id = $6 AND status IN ($7, $8)
	`
	res, err := r.db.ExecContext(ctx, query, models.JobStatusCompleted, result, tokensUsed, processingTimeMs,
		now, id, models.JobStatusPending, models.JobStatusProcessing)
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

func (r *generationJobRepository) Fail(ctx context.Context, id int64, errorMessage string) (bool, error) {
	now := time.Now()
	query := `
		UPDATE generation_jobs
		SET status = $1,
			error_message = $2,
			updated_at = $3,
			completed_at = $3
		WHERE id = $4 AND status IN ($5, $6)
	`
	res, err := r.db.ExecContext(ctx, query, models.JobStatusFailed, errorMessage,
		now, id, models.JobStatusPending, models.JobStatusProcessing)
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
