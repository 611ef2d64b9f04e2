package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/transfer"
)

type fakeContentRepo struct {
	items map[int64]*models.ContentItem
}

func newFakeContentRepo(items ...*models.ContentItem) *fakeContentRepo {
	r := &fakeContentRepo{items: make(map[int64]*models.ContentItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeContentRepo) GetByID(ctx context.Context, id int64) (*models.ContentItem, bool, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, false, nil
	}
	clone := *item
	return &clone, true, nil
}

func (r *fakeContentRepo) Create(ctx context.Context, item *models.ContentItem) (int64, error) {
	id := int64(len(r.items) + 1)
	item.ID = id
	r.items[id] = item
	return id, nil
}

func (r *fakeContentRepo) ListByCampaignID(ctx context.Context, campaignID int64) ([]*models.ContentItem, error) {
	var items []*models.ContentItem
	for _, item := range r.items {
		if item.CampaignID == campaignID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeContentRepo) UpdateStatus(ctx context.Context, status string, id int64) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("content item %d not found", id)
	}
	item.Status = status
	return nil
}

func (r *fakeContentRepo) UpdateStatusIf(ctx context.Context, id int64, expected, next string) (bool, error) {
	item, ok := r.items[id]
	if !ok || item.Status != expected {
		return false, nil
	}
	item.Status = next
	return true, nil
}

func (r *fakeContentRepo) BeginGeneration(ctx context.Context, id int64) (bool, error) {
	item, ok := r.items[id]
	if !ok || item.Status == models.ContentStatusGenerating {
		return false, nil
	}
	item.Status = models.ContentStatusGenerating
	return true, nil
}

func (r *fakeContentRepo) SetGeneratedBody(ctx context.Context, id int64, status, body string, meta *models.GenerationMeta) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("content item %d not found", id)
	}
	item.Status = status
	item.Body = body
	item.GenerationMeta = meta
	return nil
}

func (r *fakeContentRepo) SetGeneratedMedia(ctx context.Context, id int64, status, mediaURL string, meta *models.GenerationMeta) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("content item %d not found", id)
	}
	item.Status = status
	item.MediaURL = mediaURL
	item.GenerationMeta = meta
	return nil
}

type fakeCampaignRepo struct {
	// campaign id -> owner user id
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
	id := int64(len(r.owners) + 1)
	r.owners[id] = campaign.UserID
	return id, nil
}

func (r *fakeCampaignRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	for id, owner := range r.owners {
		if owner == userID {
			campaigns = append(campaigns, &models.Campaign{ID: id, UserID: owner})
		}
	}
	return campaigns, nil
}

func (r *fakeCampaignRepo) CheckByUserID(ctx context.Context, campaignID, userID int64) (bool, error) {
	owner, ok := r.owners[campaignID]
	return ok && owner == userID, nil
}

type fakeJobRepo struct {
	jobs   map[int64]*models.GenerationJob
	nextID int64
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[int64]*models.GenerationJob)}
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id int64) (*models.GenerationJob, bool, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, false, nil
	}
	clone := *job
	return &clone, true, nil
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.GenerationJob) (int64, error) {
	r.nextID++
	clone := *job
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.jobs[clone.ID] = &clone
	return clone.ID, nil
}

func (r *fakeJobRepo) ListByContentID(ctx context.Context, contentID int64) ([]*models.GenerationJob, error) {
	var jobs []*models.GenerationJob
	for _, job := range r.jobs {
		if job.ContentID == contentID {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (r *fakeJobRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.GenerationJob, error) {
	var jobs []*models.GenerationJob
	for _, job := range r.jobs {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (r *fakeJobRepo) MarkProcessing(ctx context.Context, id int64) error {
	job, ok := r.jobs[id]
	if ok && job.Status == models.JobStatusPending {
		job.Status = models.JobStatusProcessing
	}
	return nil
}

func (r *fakeJobRepo) Complete(ctx context.Context, id int64, result string, tokensUsed int, processingTimeMs int64) (bool, error) {
	job, ok := r.jobs[id]
	if !ok || job.IsTerminal() {
		return false, nil
	}
	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.Result = result
	job.TokensUsed = tokensUsed
	job.ProcessingTimeMs = processingTimeMs
	job.CompletedAt = &now
	return true, nil
}

func (r *fakeJobRepo) Fail(ctx context.Context, id int64, errorMessage string) (bool, error) {
	job, ok := r.jobs[id]
	if !ok || job.IsTerminal() {
		return false, nil
	}
	now := time.Now()
	job.Status = models.JobStatusFailed
	job.ErrorMessage = errorMessage
	job.CompletedAt = &now
	return true, nil
}

type fakeTextProvider struct {
	content string
	tokens  int
	err     error
	calls   int
}

func (p *fakeTextProvider) GenerateText(ctx context.Context, prompt string, opts models.GenerationOptions) (string, int, error) {
	p.calls++
	if p.err != nil {
		return "", 0, p.err
	}
	return p.content, p.tokens, nil
}

type fakeWorkflow struct {
	triggered []int64
	err       error
}

func (w *fakeWorkflow) Trigger(ctx context.Context, job *models.GenerationJob) error {
	if w.err != nil {
		return w.err
	}
	w.triggered = append(w.triggered, job.ID)
	return nil
}

type fakeMedia struct {
	enabled bool
	url     string
	err     error
}

func (m *fakeMedia) Enabled() bool { return m.enabled }

func (m *fakeMedia) Mirror(ctx context.Context, srcURL string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

type fakeEnqueuer struct {
	generations   []int64
	notifications []*transfer.NotificationCreation
	genErr        error
}

func (q *fakeEnqueuer) EnqueueGeneration(ctx context.Context, jobID int64) error {
	if q.genErr != nil {
		return q.genErr
	}
	q.generations = append(q.generations, jobID)
	return nil
}

func (q *fakeEnqueuer) EnqueueNotification(ctx context.Context, n *transfer.NotificationCreation) error {
	q.notifications = append(q.notifications, n)
	return nil
}

type fakePublicationRepo struct {
	pubs   map[int64]*models.Publication
	nextID int64
}

func newFakePublicationRepo() *fakePublicationRepo {
	return &fakePublicationRepo{pubs: make(map[int64]*models.Publication)}
}

func (r *fakePublicationRepo) GetByID(ctx context.Context, id int64) (*models.Publication, bool, error) {
	pub, ok := r.pubs[id]
	if !ok {
		return nil, false, nil
	}
	clone := *pub
	return &clone, true, nil
}

func (r *fakePublicationRepo) Create(ctx context.Context, pub *models.Publication) (int64, error) {
	r.nextID++
	clone := *pub
	clone.ID = r.nextID
	r.pubs[clone.ID] = &clone
	return clone.ID, nil
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
			due = append(due, pub)
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

type fakeSocialAccountRepo struct {
	accounts map[int64]*models.SocialAccount
}

func (r *fakeSocialAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, bool, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, false, nil
	}
	return account, true, nil
}

func (r *fakeSocialAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeSocialAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	account, ok := r.accounts[accountID]
	return ok && account.UserID == userID, nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	return user, true, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return nil, false, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (int64, error) {
	id := int64(len(r.notifications) + 1)
	n.ID = id
	r.notifications = append(r.notifications, n)
	return id, nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			n.Read = true
			n.ReadAt = &now
		}
	}
	return nil
}
