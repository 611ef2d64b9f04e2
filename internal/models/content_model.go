package models

import "time"

type ContentItem struct {
	ID             int64           `db:"id" json:"id"`
	CampaignID     int64           `db:"campaign_id" json:"campaign_id"`
	ContentType    string          `db:"content_type" json:"content_type"`
	Title          string          `db:"title" json:"title"`
	Body           string          `db:"body" json:"body"`
	MediaURL       string          `db:"media_url" json:"media_url"`
	Status         string          `db:"status" json:"status"`
	GenerationMeta *GenerationMeta `db:"generation_meta" json:"generation_meta,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// GenerationMeta records how the current body/media was produced.
type GenerationMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Provider    string    `json:"provider"`
	TokensUsed  int       `json:"tokens_used,omitempty"`
}

const (
	ContentStatusDraft      = "draft"
	ContentStatusGenerating = "generating"
	ContentStatusReady      = "ready"
	ContentStatusApproved   = "approved"
	ContentStatusPublished  = "published"
)

const (
	ContentTypePost          = "post"
	ContentTypeArticle       = "article"
	ContentTypeAdvertisement = "advertisement"
	ContentTypeImage         = "image"
	ContentTypeVideo         = "video"
)
