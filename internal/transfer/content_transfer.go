package transfer

type ContentCreation struct {
	CampaignID  int64  `json:"campaign_id" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=post article advertisement image video"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

type TransitionRequest struct {
	ContentID int64  `json:"content_id" validate:"required"`
	Action    string `json:"action" validate:"required"`
}

type BulkTransitionRequest struct {
	ContentIDs []int64 `json:"content_ids" validate:"required,min=1"`
	Action     string  `json:"action" validate:"required"`
}

// TransitionResult reports one item's outcome in a bulk transition. The
// batch never fails atomically; each item carries its own error.
type TransitionResult struct {
	ContentID int64  `json:"content_id"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}
