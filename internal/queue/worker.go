package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

func (w *Worker) HandleGenerateContentTask(ctx context.Context, task *asynq.Task) error {
	var payload GenerateContentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// Provider failures are recorded as terminal job state inside Process;
	// an error here means infrastructure trouble and is worth a retry.
	return w.gs.Process(ctx, payload.JobID)
}

func (w *Worker) HandleSendNotificationTask(ctx context.Context, task *asynq.Task) error {
	var payload SendNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return w.ns.Dispatch(ctx, &payload.Notification)
}

func (w *Worker) HandlePublicationSweepTask(ctx context.Context, task *asynq.Task) error {
	var payload PublicationSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return w.sweep.Run(ctx, time.Unix(payload.TriggeredAt, 0))
}
