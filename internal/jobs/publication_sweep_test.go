package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/transfer"
)

type fakePublicationRepo struct {
	pubs map[int64]*models.Publication
}

func (r *fakePublicationRepo) GetByID(ctx context.Context, id int64) (*models.Publication, bool, error) {
	pub, ok := r.pubs[id]
	if !ok {
		return nil, false, nil
	}
	return pub, true, nil
}

func (r *fakePublicationRepo) Create(ctx context.Context, pub *models.Publication) (int64, error) {
	id := int64(len(r.pubs) + 1)
	pub.ID = id
	r.pubs[id] = pub
	return id, nil
}

func (r *fakePublicationRepo) ListByContentID(ctx context.Context, contentID int64) ([]*models.Publication, error) {
	var out []*models.Publication
	for _, pub := range r.pubs {
		if pub.ContentID == contentID {
			out = append(out, pub)
		}
	}
	return out, nil
}

func (r *fakePublicationRepo) FindDue(ctx context.Context, now time.Time) ([]*models.Publication, error) {
	var due []*models.Publication
	for _, pub := range r.pubs {
		if pub.Status == models.PublicationStatusScheduled && pub.ScheduledAt != nil && !pub.ScheduledAt.After(now) {
			clone := *pub
			due = append(due, &clone)
		}
	}
	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].ScheduledAt.Before(*due[i].ScheduledAt) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	return due, nil
}

func (r *fakePublicationRepo) UpdateStatus(ctx context.Context, status string, id int64) error {
	r.pubs[id].Status = status
	return nil
}

func (r *fakePublicationRepo) Schedule(ctx context.Context, id int64, scheduledAt time.Time) (bool, error) {
	pub, ok := r.pubs[id]
	if !ok || pub.Status != models.PublicationStatusDraft {
		return false, nil
	}
	pub.Status = models.PublicationStatusScheduled
	pub.ScheduledAt = &scheduledAt
	return true, nil
}

func (r *fakePublicationRepo) MarkPublished(ctx context.Context, id int64, externalPostID string, publishedAt time.Time) error {
	pub := r.pubs[id]
	pub.Status = models.PublicationStatusPublished
	pub.ExternalPostID = externalPostID
	pub.PublishedAt = &publishedAt
	return nil
}

func (r *fakePublicationRepo) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	pub := r.pubs[id]
	pub.Status = models.PublicationStatusFailed
	pub.ErrorMessage = errorMessage
	pub.RetryCount++
	return nil
}

type fakeContentRepo struct {
	items map[int64]*models.ContentItem
}

func (r *fakeContentRepo) GetByID(ctx context.Context, id int64) (*models.ContentItem, bool, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, false, nil
	}
	return item, true, nil
}

func (r *fakeContentRepo) Create(ctx context.Context, item *models.ContentItem) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeContentRepo) ListByCampaignID(ctx context.Context, campaignID int64) ([]*models.ContentItem, error) {
	return nil, nil
}

func (r *fakeContentRepo) UpdateStatus(ctx context.Context, status string, id int64) error {
	return nil
}

func (r *fakeContentRepo) UpdateStatusIf(ctx context.Context, id int64, expected, next string) (bool, error) {
	return false, nil
}

func (r *fakeContentRepo) BeginGeneration(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (r *fakeContentRepo) SetGeneratedBody(ctx context.Context, id int64, status, body string, meta *models.GenerationMeta) error {
	return nil
}

func (r *fakeContentRepo) SetGeneratedMedia(ctx context.Context, id int64, status, mediaURL string, meta *models.GenerationMeta) error {
	return nil
}

type fakeCampaignRepo struct {
	owners map[int64]int64
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error) {
	owner, ok := r.owners[id]
	if !ok {
		return nil, false, nil
	}
	return &models.Campaign{ID: id, UserID: owner}, true, nil
}

func (r *fakeCampaignRepo) Create(ctx context.Context, campaign *models.Campaign) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeCampaignRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	return nil, nil
}

func (r *fakeCampaignRepo) CheckByUserID(ctx context.Context, campaignID, userID int64) (bool, error) {
	owner, ok := r.owners[campaignID]
	return ok && owner == userID, nil
}

type fakeAccountRepo struct {
	accounts map[int64]*models.SocialAccount
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, bool, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, false, nil
	}
	return account, true, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.SocialAccount) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	account, ok := r.accounts[accountID]
	return ok && account.UserID == userID, nil
}

// fakePublisher fails or panics for the publication IDs it is told to.
type fakePublisher struct {
	failIDs  map[int64]error
	panicIDs map[int64]bool
	calls    []int64
}

func (p *fakePublisher) Publish(ctx context.Context, pub *models.Publication, account *models.SocialAccount) (string, error) {
	p.calls = append(p.calls, pub.ID)
	if p.panicIDs[pub.ID] {
		panic("publisher blew up")
	}
	if err, ok := p.failIDs[pub.ID]; ok {
		return "", err
	}
	return "ext-" + account.Platform, nil
}

type fakeEnqueuer struct {
	notifications []*transfer.NotificationCreation
}

func (q *fakeEnqueuer) EnqueueGeneration(ctx context.Context, jobID int64) error {
	return errors.New("not implemented")
}

func (q *fakeEnqueuer) EnqueueNotification(ctx context.Context, n *transfer.NotificationCreation) error {
	q.notifications = append(q.notifications, n)
	return nil
}

type sweepFixture struct {
	pr    *fakePublicationRepo
	pub   *fakePublisher
	q     *fakeEnqueuer
	sweep *PublicationSweep
}

func newSweepFixture(pubs ...*models.Publication) *sweepFixture {
	f := &sweepFixture{
		pr:  &fakePublicationRepo{pubs: make(map[int64]*models.Publication)},
		pub: &fakePublisher{failIDs: map[int64]error{}, panicIDs: map[int64]bool{}},
		q:   &fakeEnqueuer{},
	}
	for _, pub := range pubs {
		f.pr.pubs[pub.ID] = pub
	}

	cr := &fakeContentRepo{items: map[int64]*models.ContentItem{
		10: {ID: 10, CampaignID: 5},
	}}
	cp := &fakeCampaignRepo{owners: map[int64]int64{5: 77}}
	ac := &fakeAccountRepo{accounts: map[int64]*models.SocialAccount{
		20: {ID: 20, UserID: 77, Platform: "instagram"},
	}}

	f.sweep = NewPublicationSweep(f.pr, cr, cp, ac, f.pub, f.q)
	return f
}

func scheduledPublication(id int64, scheduledAt time.Time) *models.Publication {
	return &models.Publication{
		ID:          id,
		ContentID:   10,
		AccountID:   20,
		Platform:    "instagram",
		Status:      models.PublicationStatusScheduled,
		ScheduledAt: &scheduledAt,
	}
}

func TestSweepPublishesDueItems(t *testing.T) {
	now := time.Now()
	f := newSweepFixture(
		scheduledPublication(1, now.Add(-2*time.Minute)),
		scheduledPublication(2, now.Add(-time.Minute)),
		scheduledPublication(3, now.Add(time.Hour)),
	)

	require.NoError(t, f.sweep.Run(context.Background(), now))

	assert.Equal(t, models.PublicationStatusPublished, f.pr.pubs[1].Status)
	assert.Equal(t, models.PublicationStatusPublished, f.pr.pubs[2].Status)
	assert.Equal(t, "ext-instagram", f.pr.pubs[1].ExternalPostID)
	require.NotNil(t, f.pr.pubs[1].PublishedAt)

	// Not due yet, untouched.
	assert.Equal(t, models.PublicationStatusScheduled, f.pr.pubs[3].Status)

	// Earliest scheduled item goes first.
	assert.Equal(t, []int64{1, 2}, f.pub.calls)

	require.Len(t, f.q.notifications, 2)
	assert.Equal(t, int64(77), f.q.notifications[0].UserID)
	assert.Equal(t, models.NotificationPublicationPublished, f.q.notifications[0].Type)
}

// One failing item must not stop the rest of the sweep.
func TestSweepIsolatesFailures(t *testing.T) {
	now := time.Now()
	f := newSweepFixture(
		scheduledPublication(1, now.Add(-3*time.Minute)),
		scheduledPublication(2, now.Add(-2*time.Minute)),
		scheduledPublication(3, now.Add(-time.Minute)),
	)
	f.pub.failIDs[2] = errors.New("platform rejected the post")

	require.NoError(t, f.sweep.Run(context.Background(), now))

	assert.Equal(t, models.PublicationStatusPublished, f.pr.pubs[1].Status)
	assert.Equal(t, models.PublicationStatusPublished, f.pr.pubs[3].Status)

	failed := f.pr.pubs[2]
	assert.Equal(t, models.PublicationStatusFailed, failed.Status)
	assert.Equal(t, "platform rejected the post", failed.ErrorMessage)
	assert.Equal(t, 1, failed.RetryCount)

	// Only the successes notify.
	require.Len(t, f.q.notifications, 2)
}

func TestSweepContainsPublisherPanic(t *testing.T) {
	now := time.Now()
	f := newSweepFixture(
		scheduledPublication(1, now.Add(-2*time.Minute)),
		scheduledPublication(2, now.Add(-time.Minute)),
	)
	f.pub.panicIDs[1] = true

	require.NoError(t, f.sweep.Run(context.Background(), now))

	assert.Equal(t, models.PublicationStatusFailed, f.pr.pubs[1].Status)
	assert.Contains(t, f.pr.pubs[1].ErrorMessage, "publish panicked")
	assert.Equal(t, models.PublicationStatusPublished, f.pr.pubs[2].Status)
}

func TestSweepFailsMissingAccount(t *testing.T) {
	now := time.Now()
	pub := scheduledPublication(1, now.Add(-time.Minute))
	pub.AccountID = 999
	f := newSweepFixture(pub)

	require.NoError(t, f.sweep.Run(context.Background(), now))

	assert.Equal(t, models.PublicationStatusFailed, f.pr.pubs[1].Status)
	assert.Contains(t, f.pr.pubs[1].ErrorMessage, "does not exist")
	assert.Empty(t, f.q.notifications)
}

func TestSweepEmptyRun(t *testing.T) {
	f := newSweepFixture()
	require.NoError(t, f.sweep.Run(context.Background(), time.Now()))
	assert.Empty(t, f.pub.calls)
	assert.Empty(t, f.q.notifications)
}
