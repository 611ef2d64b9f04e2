package service

import (
	"context"

	"github.com/campflowhq/campflow/internal/transfer"
)

// TaskEnqueuer hands units of work to the background queue. Services depend
// on this interface; the asynq-backed implementation lives in the queue
// package.
type TaskEnqueuer interface {
	EnqueueGeneration(ctx context.Context, jobID int64) error
	EnqueueNotification(ctx context.Context, n *transfer.NotificationCreation) error
}
