// Package domain holds the identifier types shared by every feature package.
//
// Identifiers issued by the external registries (case, task, document) and the
// identity provider (users, groups) are opaque strings. Typed wrappers keep a
// task id from being passed where a group id is expected; the Parse functions
// enforce the trust-boundary invariants for values arriving over HTTP or Kafka.
package domain

import (
	"strings"
	"unicode"

	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
)

const maxIDLength = 255

// WorkItemID identifies a task or a case in the work item gateway.
type WorkItemID string

// UserID identifies a staff member in the identity registry.
type UserID string

// GroupID identifies a team that can hold unassigned work items.
type GroupID string

// DocumentID identifies a versioned document in the document registry.
type DocumentID string

func (id WorkItemID) String() string { return string(id) }
func (id UserID) String() string     { return string(id) }
func (id GroupID) String() string    { return string(id) }
func (id DocumentID) String() string { return string(id) }

// IsZero reports whether no identifier is set.
func (id WorkItemID) IsZero() bool { return id == "" }
func (id UserID) IsZero() bool     { return id == "" }
func (id GroupID) IsZero() bool    { return id == "" }
func (id DocumentID) IsZero() bool { return id == "" }

// ParseWorkItemID validates a work item identifier.
func ParseWorkItemID(s string) (WorkItemID, error) {
	v, err := parseID("work item", s)
	return WorkItemID(v), err
}

// ParseUserID validates a user identifier.
func ParseUserID(s string) (UserID, error) {
	v, err := parseID("user", s)
	return UserID(v), err
}

// ParseGroupID validates a group identifier.
func ParseGroupID(s string) (GroupID, error) {
	v, err := parseID("group", s)
	return GroupID(v), err
}

// ParseDocumentID validates a document identifier.
func ParseDocumentID(s string) (DocumentID, error) {
	v, err := parseID("document", s)
	return DocumentID(v), err
}

func parseID(kind, s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	if len(v) > maxIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" id is too long")
	}
	for _, r := range v {
		if unicode.IsControl(r) || unicode.IsSpace(r) || unicode.Is(unicode.Cf, r) || r == '/' {
			return "", dErrors.New(dErrors.CodeInvalidInput, kind+" id contains invalid characters")
		}
	}
	return v, nil
}

// Kind discriminates the objects events and signals can refer to.
type Kind string

const (
	KindTask     Kind = "task"
	KindCase     Kind = "case"
	KindDocument Kind = "document"
)

// IsWorkItem reports whether the kind is one the work item gateway owns.
func (k Kind) IsWorkItem() bool {
	return k == KindTask || k == KindCase
}

// ParseWorkItemKind accepts the plural path forms used by the HTTP API as well
// as the singular names.
func ParseWorkItemKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task", "tasks":
		return KindTask, nil
	case "case", "cases":
		return KindCase, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown work item kind")
	}
}
