package models

import "time"

// GenerationOptions carries provider-specific flags (tone, length, platform, ...).
type GenerationOptions map[string]string

type GenerationJob struct {
	ID               int64             `db:"id" json:"id"`
	ContentID        int64             `db:"content_id" json:"content_id"`
	UserID           int64             `db:"user_id" json:"user_id"`
	Provider         string            `db:"provider" json:"provider"`
	Prompt           string            `db:"prompt" json:"prompt"`
	Options          GenerationOptions `db:"options" json:"options,omitempty"`
	Status           string            `db:"status" json:"status"`
	Result           string            `db:"result" json:"result,omitempty"`
	TokensUsed       int               `db:"tokens_used" json:"tokens_used,omitempty"`
	ProcessingTimeMs int64             `db:"processing_time_ms" json:"processing_time_ms,omitempty"`
	ErrorMessage     string            `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time        `db:"completed_at" json:"completed_at,omitempty"`
}

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	ProviderText          = "text-provider"
	ProviderImageWorkflow = "image-workflow"
	ProviderVideoWorkflow = "video-workflow"
)

// IsTerminal reports whether the job already has a final outcome.
func (j *GenerationJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
