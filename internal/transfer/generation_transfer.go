package transfer

import "github.com/campflowhq/campflow/internal/models"

type GenerationRequest struct {
	ContentID int64                    `json:"content_id" validate:"required"`
	Prompt    string                   `json:"prompt" validate:"required"`
	Options   models.GenerationOptions `json:"options"`
}

// GenerationCallback is the webhook body posted back by workflow providers.
type GenerationCallback struct {
	JobID    int64  `json:"jobId"`
	ObjectID int64  `json:"objectId"`
	Status   string `json:"status"`
	MediaURL string `json:"mediaUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// WorkflowTrigger is the outbound payload that kicks off an external
// image/video workflow. The provider reports back via CallbackURL.
type WorkflowTrigger struct {
	JobID       int64                    `json:"jobId"`
	ObjectID    int64                    `json:"objectId"`
	ContentType string                   `json:"contentType"`
	Prompt      string                   `json:"prompt"`
	Options     models.GenerationOptions `json:"options,omitempty"`
	CallbackURL string                   `json:"callbackUrl"`
}

type NotificationCreation struct {
	UserID  int64             `json:"user_id"`
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type ChatCompletionError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
