package queue

import (
	job "github.com/campflowhq/campflow/internal/jobs"
	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/transfer"
)

// Task kinds, one typed payload each.
const (
	TaskTypeGenerateContent  = "generation:content"
	TaskTypeSendNotification = "notification:send"
	TaskTypePublicationSweep = "publication:sweep"
)

type GenerateContentPayload struct {
	JobID int64 `json:"job_id"`
}

type SendNotificationPayload struct {
	Notification transfer.NotificationCreation `json:"notification"`
}

type PublicationSweepPayload struct {
	TriggeredAt int64 `json:"triggered_at"`
}

// Worker consumes queue tasks and hands them to the owning services.
type Worker struct {
	gs    service.GenerationService
	ns    service.NotificationService
	sweep *job.PublicationSweep
}

func NewWorker(gs service.GenerationService, ns service.NotificationService, sweep *job.PublicationSweep) *Worker {
	return &Worker{
		gs:    gs,
		ns:    ns,
		sweep: sweep,
	}
}
