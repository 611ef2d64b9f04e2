package transfer

type PublicationCreation struct {
	ContentID   int64  `json:"content_id" validate:"required"`
	AccountID   int64  `json:"account_id" validate:"required"`
	ScheduledAt string `json:"scheduled_at"`
}

type ScheduleRequest struct {
	PublicationID int64  `json:"publication_id" validate:"required"`
	ScheduledAt   string `json:"scheduled_at" validate:"required"`
}
