package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	config "github.com/campflowhq/campflow/configs"
	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/transfer"
)

// TextProviderService calls the LLM endpoint synchronously. The worker task
// blocks for the duration of the call; there is no timeout on the request.
type TextProviderService interface {
	GenerateText(ctx context.Context, prompt string, opts models.GenerationOptions) (string, int, error)
}

type openAIService struct {
	cfg    config.Config
	client *http.Client
}

func NewOpenAIService(cfg config.Config) TextProviderService {
	return &openAIService{cfg: cfg, client: http.DefaultClient}
}

func (s *openAIService) GenerateText(ctx context.Context, prompt string, opts models.GenerationOptions) (string, int, error) {
	if s.cfg.TextProvider.APIKey == "" {
		err := errors.New("text provider API key is not configured")
		slog.Info(err.Error())
		return "", 0, err
	}

	reqBody := transfer.ChatCompletionRequest{
		Model: s.cfg.TextProvider.Model,
		Messages: []transfer.ChatMessage{
			{Role: "system", Content: systemPrompt(opts)},
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TextProvider.URL, bytes.NewBuffer(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.TextProvider.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr transfer.ChatCompletionError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", 0, fmt.Errorf("text provider error: %s", apiErr.Error.Message)
		}
		return "", 0, fmt.Errorf("text provider returned status %d", resp.StatusCode)
	}

	var completion transfer.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		slog.Info(err.Error())
		return "", 0, err
	}

	if len(completion.Choices) == 0 {
		return "", 0, errors.New("text provider returned no choices")
	}

	return completion.Choices[0].Message.Content, completion.Usage.TotalTokens, nil
}

func systemPrompt(opts models.GenerationOptions) string {
	base := "You are a marketing copywriter. Write the requested campaign content."
	if opts == nil {
		return base
	}
	if tone := opts["tone"]; tone != "" {
		base += " Use a " + tone + " tone."
	}
	if length := opts["length"]; length != "" {
		base += " Target length: " + length + "."
	}
	if platform := opts["platform"]; platform != "" {
		base += " The content is for " + platform + "."
	}
	return base
}
