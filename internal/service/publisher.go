package service

import (
	"context"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/campflowhq/campflow/internal/models"
)

// Publisher performs the actual post to a social platform. The stub below
// is the extension point for direct platform APIs or workflow-triggered
// publishing; swap it out in main when a real integration lands.
type Publisher interface {
	Publish(ctx context.Context, pub *models.Publication, account *models.SocialAccount) (string, error)
}

type stubPublisher struct{}

func NewStubPublisher() Publisher {
	return &stubPublisher{}
}

func (p *stubPublisher) Publish(ctx context.Context, pub *models.Publication, account *models.SocialAccount) (string, error) {
	externalID, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	slog.Debug("stub publish", "publication_id", pub.ID, "platform", account.Platform)
	return fmt.Sprintf("%s-%s", account.Platform, externalID), nil
}
