package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	config "github.com/campflowhq/campflow/configs"
	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/transfer"
	"github.com/campflowhq/campflow/pkg/utils"
)

// WorkflowService triggers an external image/video workflow. The trigger is
// fire-and-forget; the workflow reports completion on the signed webhook.
type WorkflowService interface {
	Trigger(ctx context.Context, job *models.GenerationJob) error
}

type workflowService struct {
	cfg    config.Config
	client *http.Client
}

func NewWorkflowService(cfg config.Config) WorkflowService {
	return &workflowService{cfg: cfg, client: http.DefaultClient}
}

func (s *workflowService) Trigger(ctx context.Context, job *models.GenerationJob) error {
	var triggerURL, contentType string
	switch job.Provider {
	case models.ProviderImageWorkflow:
		triggerURL = s.cfg.Workflows.ImageTriggerURL
		contentType = models.ContentTypeImage
	case models.ProviderVideoWorkflow:
		triggerURL = s.cfg.Workflows.VideoTriggerURL
		contentType = models.ContentTypeVideo
	default:
		return fmt.Errorf("provider %s has no workflow trigger", job.Provider)
	}

	if triggerURL == "" {
		err := errors.New("workflow trigger URL is not configured")
		slog.Info(err.Error())
		return err
	}

	payload, err := json.Marshal(transfer.WorkflowTrigger{
		JobID:       job.ID,
		ObjectID:    job.ContentID,
		ContentType: contentType,
		Prompt:      job.Prompt,
		Options:     job.Options,
		CallbackURL: s.cfg.PublicBaseURL + "/webhooks/generation",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", utils.SignPayload(payload, s.cfg.Workflows.WebhookSecret))

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("workflow trigger returned status %d", resp.StatusCode)
	}

	return nil
}
