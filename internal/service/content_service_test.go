package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

func newContentFixture(contentStatus string) (*fakeContentRepo, ContentService) {
	cr := newFakeContentRepo(&models.ContentItem{
		ID:          testContentID,
		CampaignID:  testCampaignID,
		ContentType: models.ContentTypePost,
		Status:      contentStatus,
	})
	cp := &fakeCampaignRepo{owners: map[int64]int64{testCampaignID: testUserID}}
	return cr, NewContentService(cr, cp)
}

func TestContentCreateStartsAsDraft(t *testing.T) {
	cr, cs := newContentFixture(models.ContentStatusDraft)

	id, err := cs.Create(context.Background(), testUserID, &transfer.ContentCreation{
		CampaignID:  testCampaignID,
		ContentType: models.ContentTypeArticle,
		Title:       "Launch announcement",
	})
	require.NoError(t, err)

	item, ok, _ := cr.GetByID(context.Background(), id)
	require.True(t, ok)
	assert.Equal(t, models.ContentStatusDraft, item.Status)
	assert.Equal(t, models.ContentTypeArticle, item.ContentType)
}

func TestContentCreateRejectsForeignCampaign(t *testing.T) {
	_, cs := newContentFixture(models.ContentStatusDraft)

	_, err := cs.Create(context.Background(), int64(99), &transfer.ContentCreation{
		CampaignID:  testCampaignID,
		ContentType: models.ContentTypePost,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestContentTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		action  status.Action
		want    string
		wantErr bool
	}{
		{"submit draft for review", models.ContentStatusDraft, status.ActionSubmitReview, models.ContentStatusReady, false},
		{"approve ready", models.ContentStatusReady, status.ActionApprove, models.ContentStatusApproved, false},
		{"send approved back to draft", models.ContentStatusApproved, status.ActionRequestChanges, models.ContentStatusDraft, false},
		{"approve draft", models.ContentStatusDraft, status.ActionApprove, "", true},
		{"submit while generating", models.ContentStatusGenerating, status.ActionSubmitReview, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr, cs := newContentFixture(tt.from)

			item, err := cs.Transition(context.Background(), testUserID, testContentID, tt.action)
			if tt.wantErr {
				var ite *status.InvalidTransitionError
				require.True(t, errors.As(err, &ite))

				stored, _, _ := cr.GetByID(context.Background(), testContentID)
				assert.Equal(t, tt.from, stored.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, item.Status)

			stored, _, _ := cr.GetByID(context.Background(), testContentID)
			assert.Equal(t, tt.want, stored.Status)
		})
	}
}

// Internal actions must not be reachable through the user-facing endpoint.
func TestContentTransitionRejectsInternalActions(t *testing.T) {
	_, cs := newContentFixture(models.ContentStatusDraft)

	for _, action := range []status.Action{
		status.ActionStartGeneration,
		status.ActionGenerationSucceeded,
		status.ActionGenerationFailed,
	} {
		_, err := cs.Transition(context.Background(), testUserID, testContentID, action)
		var ite *status.InvalidTransitionError
		require.Truef(t, errors.As(err, &ite), "%s should be rejected", action)
	}
}

func TestContentTransitionConflictsOnConcurrentChange(t *testing.T) {
	cr, _ := newContentFixture(models.ContentStatusDraft)
	cp := &fakeCampaignRepo{owners: map[int64]int64{testCampaignID: testUserID}}
	cs := NewContentService(&racingContentRepo{fakeContentRepo: cr}, cp)

	_, err := cs.Transition(context.Background(), testUserID, testContentID, status.ActionSubmitReview)
	assert.ErrorIs(t, err, ErrConflict)
}

// racingContentRepo flips the item to generating between the read and the
// guarded write, like a concurrent dispatch would.
type racingContentRepo struct {
	*fakeContentRepo
}

func (r *racingContentRepo) GetByID(ctx context.Context, id int64) (*models.ContentItem, bool, error) {
	item, ok, err := r.fakeContentRepo.GetByID(ctx, id)
	if ok {
		r.items[id].Status = models.ContentStatusGenerating
	}
	return item, ok, err
}

func TestContentTransitionBulkReportsPerItem(t *testing.T) {
	cr := newFakeContentRepo(
		&models.ContentItem{ID: 1, CampaignID: testCampaignID, ContentType: models.ContentTypePost, Status: models.ContentStatusDraft},
		&models.ContentItem{ID: 2, CampaignID: testCampaignID, ContentType: models.ContentTypePost, Status: models.ContentStatusGenerating},
		&models.ContentItem{ID: 3, CampaignID: testCampaignID, ContentType: models.ContentTypePost, Status: models.ContentStatusDraft},
	)
	cp := &fakeCampaignRepo{owners: map[int64]int64{testCampaignID: testUserID}}
	cs := NewContentService(cr, cp)

	results := cs.TransitionBulk(context.Background(), testUserID, []int64{1, 2, 3, 404}, status.ActionSubmitReview)
	require.Len(t, results, 4)

	assert.Equal(t, models.ContentStatusReady, results[0].Status)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, models.ContentStatusReady, results[2].Status)
	assert.NotEmpty(t, results[3].Error)

	// The invalid items did not block the valid ones.
	item, _, _ := cr.GetByID(context.Background(), 3)
	assert.Equal(t, models.ContentStatusReady, item.Status)
}
