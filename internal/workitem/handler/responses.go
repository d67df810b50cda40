package handler

import (
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
)

// BatchAcceptedResponse acknowledges a batch that now runs in the background.
type BatchAcceptedResponse struct {
	ScreenEventResourceID string `json:"screenEventResourceId"`
	Items                 int    `json:"items"`
}

// WorkItemResponse is the HTTP view of a task or case.
type WorkItemResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	AssigneeID   string `json:"assigneeId,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
	ParentCaseID string `json:"parentCaseId,omitempty"`
	Open         bool   `json:"open"`
}

func toWorkItemResponse(item models.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:           item.ID.String(),
		Kind:         string(item.Kind),
		AssigneeID:   item.Assignee.String(),
		GroupID:      item.Group.String(),
		ParentCaseID: item.ParentCaseID.String(),
		Open:         item.Open,
	}
}

// WorklistEntryResponse is one row of a worklist.
type WorklistEntryResponse struct {
	WorkItemResponse
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorklistResponse is the body of GET /worklist/{kind}.
type WorklistResponse struct {
	Items []WorklistEntryResponse `json:"items"`
}

func toWorklistResponse(entries []models.IndexEntry) WorklistResponse {
	items := make([]WorklistEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = WorklistEntryResponse{
			WorkItemResponse: WorkItemResponse{
				ID:           e.ID.String(),
				Kind:         string(e.Kind),
				AssigneeID:   e.Assignee.String(),
				GroupID:      e.Group.String(),
				ParentCaseID: e.ParentCaseID.String(),
				Open:         e.Open,
			},
			UpdatedAt: e.UpdatedAt,
		}
	}
	return WorklistResponse{Items: items}
}
