// Package status holds the pure transition tables for content items and
// publications. It performs no I/O; callers persist the returned status.
package status

import (
	"fmt"

	"github.com/campflowhq/campflow/internal/models"
)

type Action string

const (
	// User-facing content actions.
	ActionSubmitReview   Action = "submit_review"
	ActionApprove        Action = "approve"
	ActionRequestChanges Action = "request_changes"

	// Internal content actions, driven by the generation pipeline only.
	ActionStartGeneration     Action = "start_generation"
	ActionGenerationSucceeded Action = "generation_succeeded"
	ActionGenerationFailed    Action = "generation_failed"

	// Publication actions.
	ActionSchedule         Action = "schedule"
	ActionBeginPublish     Action = "begin_publish"
	ActionPublishSucceeded Action = "publish_succeeded"
	ActionPublishFailed    Action = "publish_failed"
)

// InvalidTransitionError reports an action that is not legal from the
// current status. The fields are exposed so callers can build messages
// like "cannot approve from status draft".
type InvalidTransitionError struct {
	Action Action
	From   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %s", e.Action, e.From)
}

var contentTransitions = map[Action]map[string]string{
	ActionSubmitReview: {
		models.ContentStatusDraft: models.ContentStatusReady,
	},
	ActionApprove: {
		models.ContentStatusReady: models.ContentStatusApproved,
	},
	ActionRequestChanges: {
		models.ContentStatusReady:    models.ContentStatusDraft,
		models.ContentStatusApproved: models.ContentStatusDraft,
	},
	ActionGenerationSucceeded: {
		models.ContentStatusGenerating: models.ContentStatusReady,
	},
	ActionGenerationFailed: {
		models.ContentStatusGenerating: models.ContentStatusDraft,
	},
}

// NextContentStatus returns the status a content item moves to when action
// is applied from current. ActionStartGeneration is legal from every status
// except generating; everything else follows the transition table.
func NextContentStatus(current string, action Action) (string, error) {
	if action == ActionStartGeneration {
		if current == models.ContentStatusGenerating {
			return "", &InvalidTransitionError{Action: action, From: current}
		}
		return models.ContentStatusGenerating, nil
	}

	edges, ok := contentTransitions[action]
	if !ok {
		return "", &InvalidTransitionError{Action: action, From: current}
	}
	next, ok := edges[current]
	if !ok {
		return "", &InvalidTransitionError{Action: action, From: current}
	}
	return next, nil
}

// IsUserContentAction reports whether action may be requested directly by a
// user. Generation transitions are reserved for the dispatch pipeline.
func IsUserContentAction(action Action) bool {
	switch action {
	case ActionSubmitReview, ActionApprove, ActionRequestChanges:
		return true
	}
	return false
}

var publicationTransitions = map[Action]map[string]string{
	ActionSchedule: {
		models.PublicationStatusDraft: models.PublicationStatusScheduled,
	},
	ActionBeginPublish: {
		models.PublicationStatusScheduled: models.PublicationStatusPublishing,
	},
	ActionPublishSucceeded: {
		models.PublicationStatusPublishing: models.PublicationStatusPublished,
	},
	ActionPublishFailed: {
		models.PublicationStatusPublishing: models.PublicationStatusFailed,
	},
}

// NextPublicationStatus is the publication counterpart of NextContentStatus.
func NextPublicationStatus(current string, action Action) (string, error) {
	edges, ok := publicationTransitions[action]
	if !ok {
		return "", &InvalidTransitionError{Action: action, From: current}
	}
	next, ok := edges[current]
	if !ok {
		return "", &InvalidTransitionError{Action: action, From: current}
	}
	return next, nil
}
