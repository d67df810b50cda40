package models

import (
	"time"

	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Document is the registry's view of an information object linked to a case.
// Version increases by one with every accepted update.
type Document struct {
	ID        id.DocumentID `json:"id"`
	CaseID    id.WorkItemID `json:"caseId"`
	Title     string        `json:"title"`
	Content   string        `json:"content,omitempty"`
	Version   int           `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool { return p.Title == nil && p.Content == nil }

// Apply returns the document with the patch's fields set.
func (d Document) Apply(p Patch) Document {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	return d
}
