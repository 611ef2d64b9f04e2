package models

import "time"

type Notification struct {
	ID        int64             `db:"id" json:"id"`
	UserID    int64             `db:"user_id" json:"user_id"`
	Type      string            `db:"type" json:"type"`
	Title     string            `db:"title" json:"title"`
	Message   string            `db:"message" json:"message,omitempty"`
	Data      map[string]string `db:"data" json:"data,omitempty"`
	Read      bool              `db:"read" json:"read"`
	ReadAt    *time.Time        `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

const (
	NotificationGenerationComplete   = "generation_complete"
	NotificationPublicationPublished = "publication_published"
)
