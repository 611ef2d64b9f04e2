package job

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/repository"
	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

// PublicationSweep advances every due scheduled publication. Items are
// handled independently and in scheduled order; one failure never aborts
// the rest of the sweep.
type PublicationSweep struct {
	pr  repository.PublicationRepository
	cr  repository.ContentRepository
	cp  repository.CampaignRepository
	ac  repository.SocialAccountRepository
	pub service.Publisher
	q   service.TaskEnqueuer
}

func NewPublicationSweep(
	pr repository.PublicationRepository,
	cr repository.ContentRepository,
	cp repository.CampaignRepository,
	ac repository.SocialAccountRepository,
	pub service.Publisher,
	q service.TaskEnqueuer) *PublicationSweep {
	return &PublicationSweep{
		pr:  pr,
		cr:  cr,
		cp:  cp,
		ac:  ac,
		pub: pub,
		q:   q,
	}
}

func (s *PublicationSweep) Run(ctx context.Context, now time.Time) error {
	due, err := s.pr.FindDue(ctx, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		slog.Debug("no due publications")
		return nil
	}

	slog.Info("processing due publications", "count", len(due))

	for _, pub := range due {
		s.processOne(ctx, pub, now)
	}
	return nil
}

func (s *PublicationSweep) processOne(ctx context.Context, pub *models.Publication, now time.Time) {
	next, err := status.NextPublicationStatus(pub.Status, status.ActionBeginPublish)
	if err != nil {
		slog.Warn("skipping publication", "publication_id", pub.ID, "error", err)
		return
	}

	// Persist publishing before the attempt so a crash mid-sweep shows an
	// in-progress row instead of a silently stuck scheduled one.
	if err := s.pr.UpdateStatus(ctx, next, pub.ID); err != nil {
		slog.Error("failed to mark publication publishing", "publication_id", pub.ID, "error", err)
		return
	}
	pub.Status = next

	externalID, err := s.attemptPublish(ctx, pub)
	if err != nil {
		if merr := s.pr.MarkFailed(ctx, pub.ID, err.Error()); merr != nil {
			slog.Error("failed to record publication failure", "publication_id", pub.ID, "error", merr)
			return
		}
		slog.Error("publication failed", "publication_id", pub.ID, "error", err)
		return
	}

	if err := s.pr.MarkPublished(ctx, pub.ID, externalID, now); err != nil {
		slog.Error("failed to mark publication published", "publication_id", pub.ID, "error", err)
		return
	}

	s.notifyOwner(ctx, pub)
}

// attemptPublish isolates the publish call; a panic in a publisher
// implementation becomes that item's failure, not the sweep's.
func (s *PublicationSweep) attemptPublish(ctx context.Context, pub *models.Publication) (externalID string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("publish panicked: %v", p)
		}
	}()

	account, ok, err := s.ac.GetByID(ctx, pub.AccountID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("social account %d does not exist", pub.AccountID)
	}

	return s.pub.Publish(ctx, pub, account)
}

func (s *PublicationSweep) notifyOwner(ctx context.Context, pub *models.Publication) {
	item, ok, err := s.cr.GetByID(ctx, pub.ContentID)
	if err != nil || !ok {
		slog.Warn("content item unavailable for publication notification", "publication_id", pub.ID, "error", err)
		return
	}

	campaign, ok, err := s.cp.GetByID(ctx, item.CampaignID)
	if err != nil || !ok {
		slog.Warn("campaign unavailable for publication notification", "publication_id", pub.ID, "error", err)
		return
	}

	err = s.q.EnqueueNotification(ctx, &transfer.NotificationCreation{
		UserID: campaign.UserID,
		Type:   models.NotificationPublicationPublished,
		Title:  "Publication published",
		Data: map[string]string{
			"content_id":     strconv.FormatInt(pub.ContentID, 10),
			"publication_id": strconv.FormatInt(pub.ID, 10),
		},
	})
	if err != nil {
		slog.Error("failed to enqueue publication notification", "publication_id", pub.ID, "error", err)
	}
}
