package handler

import (
	"strings"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	platformstrings "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/strings"
)

const (
	maxBatchItems   = 1000
	maxReasonLength = 1000
)

// BatchRequest is the body of POST /{kind}/distribute and /{kind}/release.
// ScreenEventResourceID is the opaque id the client listens on for the
// completion event of the batch.
type BatchRequest struct {
	Items                 []id.WorkItemID `json:"items"`
	GroupID               string          `json:"groupId,omitempty"`
	UserID                string          `json:"userId,omitempty"`
	Reason                string          `json:"reason,omitempty"`
	ScreenEventResourceID string          `json:"screenEventResourceId"`

	target models.AssignmentTarget
}

// Validate normalizes the item list and parses the optional target.
// Implements httputil.Validatable.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Items = platformstrings.DedupeAndTrim(r.Items)
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "items is required")
	}
	if len(r.Items) > maxBatchItems {
		return dErrors.New(dErrors.CodeInvalidInput, "too many items in one batch")
	}
	for _, item := range r.Items {
		if _, err := id.ParseWorkItemID(item.String()); err != nil {
			return err
		}
	}
	r.ScreenEventResourceID = strings.TrimSpace(r.ScreenEventResourceID)
	if r.ScreenEventResourceID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "screenEventResourceId is required")
	}
	target, err := parseTarget(r.GroupID, r.UserID, r.Reason)
	if err != nil {
		return err
	}
	r.target = target
	return nil
}

// Job builds the batch job for kind.
func (r *BatchRequest) Job(kind id.Kind) models.BatchJob {
	return models.BatchJob{
		Kind:          kind,
		Items:         r.Items,
		Target:        r.target,
		CorrelationID: r.ScreenEventResourceID,
		Reason:        r.target.Reason,
	}
}

// AssignRequest is the body of PUT /{kind}/{id}/assignment. Omitting both
// group and user releases the item.
type AssignRequest struct {
	GroupID string `json:"groupId,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Reason  string `json:"reason,omitempty"`

	target models.AssignmentTarget
}

// Validate implements httputil.Validatable.
func (r *AssignRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	target, err := parseTarget(r.GroupID, r.UserID, r.Reason)
	if err != nil {
		return err
	}
	r.target = target
	return nil
}

// Target returns the parsed assignment target.
func (r *AssignRequest) Target() models.AssignmentTarget { return r.target }

func parseTarget(group, user, reason string) (models.AssignmentTarget, error) {
	var target models.AssignmentTarget
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return target, dErrors.New(dErrors.CodeInvalidInput, "reason is too long")
	}
	target.Reason = reason
	if strings.TrimSpace(group) != "" {
		g, err := id.ParseGroupID(group)
		if err != nil {
			return target, err
		}
		target.Group = g
	}
	if strings.TrimSpace(user) != "" {
		u, err := id.ParseUserID(user)
		if err != nil {
			return target, err
		}
		target.User = u
	}
	return target, nil
}
