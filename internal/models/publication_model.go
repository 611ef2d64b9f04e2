package models

import "time"

type Publication struct {
	ID             int64      `db:"id" json:"id"`
	ContentID      int64      `db:"content_id" json:"content_id"`
	AccountID      int64      `db:"account_id" json:"account_id"`
	Platform       string     `db:"platform" json:"platform"`
	Status         string     `db:"status" json:"status"`
	ExternalPostID string     `db:"external_post_id" json:"external_post_id,omitempty"`
	ScheduledAt    *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	PublishedAt    *time.Time `db:"published_at" json:"published_at,omitempty"`
	ErrorMessage   string     `db:"error_message" json:"error_message,omitempty"`
	RetryCount     int        `db:"retry_count" json:"retry_count"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PublicationStatusDraft      = "draft"
	PublicationStatusScheduled  = "scheduled"
	PublicationStatusPublishing = "publishing"
	PublicationStatusPublished  = "published"
	PublicationStatusFailed     = "failed"
)
