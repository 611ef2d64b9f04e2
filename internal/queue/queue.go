package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/campflowhq/campflow/internal/transfer"
)

// Client wraps the asynq client behind service.TaskEnqueuer.
type Client struct {
	client *asynq.Client
}

func NewClient(client *asynq.Client) *Client {
	return &Client{client: client}
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, asynq.NewTask(taskType, taskPayload), opts...)
	return err
}

func (c *Client) EnqueueGeneration(ctx context.Context, jobID int64) error {
	return c.enqueue(ctx, TaskTypeGenerateContent, GenerateContentPayload{JobID: jobID})
}

func (c *Client) EnqueueNotification(ctx context.Context, n *transfer.NotificationCreation) error {
	return c.enqueue(ctx, TaskTypeSendNotification, SendNotificationPayload{Notification: *n})
}

func (c *Client) EnqueueSweep(ctx context.Context, triggeredAt time.Time) error {
	return c.enqueue(ctx, TaskTypePublicationSweep, PublicationSweepPayload{TriggeredAt: triggeredAt.Unix()})
}
