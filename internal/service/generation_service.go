package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

type GenerationService interface {
	// Dispatch validates the request, records a pending job, moves the
	// content item to generating and enqueues the work. It returns before
	// the provider is called.
	Dispatch(ctx context.Context, userID int64, gr *transfer.GenerationRequest) (*models.GenerationJob, error)
	// Process is the worker entry point for a dispatched job.
	Process(ctx context.Context, jobID int64) error
	// ApplyWebhook applies a workflow provider's completion callback. The
	// caller must have verified the request signature already.
	ApplyWebhook(ctx context.Context, cb *transfer.GenerationCallback) error
	JobInfo(ctx context.Context, userID, jobID int64) (*models.GenerationJob, error)
	ListJobs(ctx context.Context, userID, contentID int64) ([]*models.GenerationJob, error)
}

type generationService struct {
	cr repository.ContentRepository
	cp repository.CampaignRepository
	gj repository.GenerationJobRepository
	tp TextProviderService
	wf WorkflowService
	md MediaService
	q  TaskEnqueuer
}

func NewGenerationService(
	cr repository.ContentRepository,
	cp repository.CampaignRepository,
	gj repository.GenerationJobRepository,
	tp TextProviderService,
	wf WorkflowService,
	md MediaService,
	q TaskEnqueuer) GenerationService {
	return &generationService{
		cr: cr,
		cp: cp,
		gj: gj,
		tp: tp,
		wf: wf,
		md: md,
		q:  q,
	}
}

// ProviderForContentType routes a content type to its generation provider.
func ProviderForContentType(contentType string) (string, error) {
	switch contentType {
	case models.ContentTypePost, models.ContentTypeArticle, models.ContentTypeAdvertisement:
		return models.ProviderText, nil
	case models.ContentTypeImage:
		return models.ProviderImageWorkflow, nil
	case models.ContentTypeVideo:
		return models.ProviderVideoWorkflow, nil
	}
	return "", fmt.Errorf("no provider for content type %q", contentType)
}

func (s *generationService) Dispatch(ctx context.Context, userID int64, gr *transfer.GenerationRequest) (*models.GenerationJob, error) {
	if gr == nil || gr.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", ErrInvalidPayload)
	}

	item, ok, err := s.cr.GetByID(ctx, gr.ContentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("content item %d: %w", gr.ContentID, ErrNotFound)
	}

	// The REST layer already checked ownership; re-check here so the core
	// does not depend on it.
	owns, err := s.cp.CheckByUserID(ctx, item.CampaignID, userID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("campaign %d: %w", item.CampaignID, ErrPermissionDenied)
	}

	if item.Status == models.ContentStatusGenerating {
		return nil, fmt.Errorf("content item %d is already being generated: %w", item.ID, ErrConflict)
	}

	provider, err := ProviderForContentType(item.ContentType)
	if err != nil {
		return nil, err
	}

	job := &models.GenerationJob{
		ContentID: item.ID,
		UserID:    userID,
		Provider:  provider,
		Prompt:    gr.Prompt,
		Options:   gr.Options,
		Status:    models.JobStatusPending,
	}

	jobID, err := s.gj.Create(ctx, job)
	if err != nil {
		return nil, err
	}
	job.ID = jobID

	// Compare-and-swap: the status pre-check above is racy on its own, so
	// the transition only wins if no other dispatch slipped in.
	began, err := s.cr.BeginGeneration(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if !began {
		if _, ferr := s.gj.Fail(ctx, jobID, "another generation is already in flight"); ferr != nil {
			slog.Info(ferr.Error())
		}
		return nil, fmt.Errorf("content item %d is already being generated: %w", item.ID, ErrConflict)
	}

	if err := s.q.EnqueueGeneration(ctx, jobID); err != nil {
		slog.Error("failed to enqueue generation job", "job_id", jobID, "error", err)
		if _, ferr := s.gj.Fail(ctx, jobID, "failed to enqueue generation task"); ferr != nil {
			slog.Info(ferr.Error())
		}
		s.revertContent(ctx, item.ID)
		return nil, err
	}

	return job, nil
}

func (s *generationService) Process(ctx context.Context, jobID int64) error {
	job, ok, err := s.gj.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("generation job vanished before processing", "job_id", jobID)
		return nil
	}
	if job.IsTerminal() {
		slog.Warn("generation job already terminal, skipping", "job_id", jobID, "status", job.Status)
		return nil
	}

	if err := s.gj.MarkProcessing(ctx, job.ID); err != nil {
		return err
	}

	switch job.Provider {
	case models.ProviderText:
		start := time.Now()
		content, tokensUsed, err := s.tp.GenerateText(ctx, job.Prompt, job.Options)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			// Provider failures become terminal job state, not task
			// crashes, so the queue does not retry deterministic errors.
			s.failJob(ctx, job, err.Error())
			return nil
		}
		return s.completeTextJob(ctx, job, content, tokensUsed, elapsed)

	case models.ProviderImageWorkflow, models.ProviderVideoWorkflow:
		if err := s.wf.Trigger(ctx, job); err != nil {
			s.failJob(ctx, job, err.Error())
			return nil
		}
		// The job stays processing until the workflow calls back.
		return nil
	}

	s.failJob(ctx, job, fmt.Sprintf("unknown provider %q", job.Provider))
	return nil
}

func (s *generationService) ApplyWebhook(ctx context.Context, cb *transfer.GenerationCallback) error {
	job, ok, err := s.gj.GetByID(ctx, cb.JobID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("generation job %d: %w", cb.JobID, ErrNotFound)
	}
	if cb.ObjectID != 0 && cb.ObjectID != job.ContentID {
		return fmt.Errorf("%w: objectId %d does not match job %d", ErrInvalidPayload, cb.ObjectID, cb.JobID)
	}

	// Webhook deliveries may retry; a terminal job is a no-op.
	if job.IsTerminal() {
		slog.Info("duplicate webhook delivery ignored", "job_id", job.ID, "status", job.Status)
		return nil
	}

	if cb.Status != models.JobStatusCompleted {
		message := cb.Error
		if message == "" {
			message = "generation workflow failed"
		}
		s.failJob(ctx, job, message)
		return nil
	}

	mediaURL := cb.MediaURL
	if mediaURL != "" && s.md != nil && s.md.Enabled() {
		mirrored, err := s.md.Mirror(ctx, mediaURL)
		if err != nil {
			slog.Warn("media mirror failed, keeping provider URL", "job_id", job.ID, "error", err)
		} else {
			mediaURL = mirrored
		}
	}

	applied, err := s.gj.Complete(ctx, job.ID, mediaURL, 0, 0)
	if err != nil {
		return err
	}
	if !applied {
		slog.Info("duplicate webhook delivery ignored", "job_id", job.ID)
		return nil
	}

	meta := &models.GenerationMeta{
		GeneratedAt: time.Now(),
		Provider:    job.Provider,
	}
	s.applyContentTransition(ctx, job.ContentID, status.ActionGenerationSucceeded, func(next string) error {
		return s.cr.SetGeneratedMedia(ctx, job.ContentID, next, mediaURL, meta)
	})

	s.notifyRequester(ctx, job)
	return nil
}

func (s *generationService) completeTextJob(ctx context.Context, job *models.GenerationJob, content string, tokensUsed int, elapsedMs int64) error {
	applied, err := s.gj.Complete(ctx, job.ID, content, tokensUsed, elapsedMs)
	if err != nil {
		return err
	}
	if !applied {
		slog.Warn("generation job completed elsewhere, skipping", "job_id", job.ID)
		return nil
	}

	meta := &models.GenerationMeta{
		GeneratedAt: time.Now(),
		Provider:    job.Provider,
		TokensUsed:  tokensUsed,
	}
	s.applyContentTransition(ctx, job.ContentID, status.ActionGenerationSucceeded, func(next string) error {
		return s.cr.SetGeneratedBody(ctx, job.ContentID, next, content, meta)
	})

	s.notifyRequester(ctx, job)
	return nil
}

// failJob marks the job failed and reverts the content item to draft. No
// notification goes out on failure; the failure is visible on the job row.
func (s *generationService) failJob(ctx context.Context, job *models.GenerationJob, message string) {
	applied, err := s.gj.Fail(ctx, job.ID, message)
	if err != nil {
		slog.Error("failed to record generation failure", "job_id", job.ID, "error", err)
		return
	}
	if !applied {
		return
	}

	slog.Warn("generation job failed", "job_id", job.ID, "content_id", job.ContentID, "error", message)
	s.revertContent(ctx, job.ContentID)
}

func (s *generationService) revertContent(ctx context.Context, contentID int64) {
	s.applyContentTransition(ctx, contentID, status.ActionGenerationFailed, func(next string) error {
		return s.cr.UpdateStatus(ctx, next, contentID)
	})
}

func (s *generationService) applyContentTransition(ctx context.Context, contentID int64, action status.Action, persist func(next string) error) {
	item, ok, err := s.cr.GetByID(ctx, contentID)
	if err != nil || !ok {
		slog.Warn("content item unavailable for transition", "content_id", contentID, "error", err)
		return
	}

	next, err := status.NextContentStatus(item.Status, action)
	if err != nil {
		slog.Warn("content transition skipped", "content_id", contentID, "error", err)
		return
	}

	if err := persist(next); err != nil {
		slog.Error("failed to persist content transition", "content_id", contentID, "error", err)
	}
}

func (s *generationService) notifyRequester(ctx context.Context, job *models.GenerationJob) {
	err := s.q.EnqueueNotification(ctx, &transfer.NotificationCreation{
		UserID: job.UserID,
		Type:   models.NotificationGenerationComplete,
		Title:  "Content generation complete",
		Data: map[string]string{
			"content_id": strconv.FormatInt(job.ContentID, 10),
			"job_id":     strconv.FormatInt(job.ID, 10),
		},
	})
	if err != nil {
		slog.Error("failed to enqueue notification", "job_id", job.ID, "error", err)
	}
}

func (s *generationService) JobInfo(ctx context.Context, userID, jobID int64) (*models.GenerationJob, error) {
	job, ok, err := s.gj.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("generation job %d: %w", jobID, ErrNotFound)
	}

	item, ok, err := s.cr.GetByID(ctx, job.ContentID)
	if err != nil {
		return nil, err
	}
	if ok {
		owns, err := s.cp.CheckByUserID(ctx, item.CampaignID, userID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("campaign %d: %w", item.CampaignID, ErrPermissionDenied)
		}
	}

	return job, nil
}

func (s *generationService) ListJobs(ctx context.Context, userID, contentID int64) ([]*models.GenerationJob, error) {
	if contentID == 0 {
		return s.gj.ListByUserID(ctx, userID)
	}

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

	return s.gj.ListByContentID(ctx, contentID)
}
