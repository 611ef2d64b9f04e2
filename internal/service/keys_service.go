package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/pkg/utils"
)

const maxApiKeysPerUser = 5

type ApiKeyService interface {
	Create(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	Remove(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{k: k}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) error {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(keys) >= maxApiKeysPerUser {
		return fmt.Errorf("%w: at most %d API keys per user", ErrConflict, maxApiKeysPerUser)
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("error generating API key")
	}

	_, err = s.k.Create(ctx, &models.ApiKey{UserID: userID, ApiKey: key})
	if err != nil {
		return fmt.Errorf("error saving API key")
	}
	return nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	userID, ok, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("API key: %w", ErrNotFound)
	}
	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) Remove(ctx context.Context, userID, keyID int64) error {
	if keyID == 0 {
		return fmt.Errorf("key id: %w", ErrInvalidPayload)
	}

	ok, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("API key %d: %w", keyID, ErrNotFound)
	}

	return s.k.Remove(ctx, keyID)
}
