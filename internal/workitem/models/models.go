package models

import (
	"time"

	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// WorkItem is the gateway's view of a task or a case. Kind discriminates the
// two; ParentCaseID is only set for tasks.
type WorkItem struct {
	ID           id.WorkItemID
	Kind         id.Kind
	Assignee     id.UserID
	Group        id.GroupID
	ParentCaseID id.WorkItemID
	Open         bool
}

// IsTask reports whether the item is a task.
func (w WorkItem) IsTask() bool { return w.Kind == id.KindTask }

// HasAssignee reports whether a user is personally assigned.
func (w WorkItem) HasAssignee() bool { return !w.Assignee.IsZero() }

// Apply returns the item as it looks after the op has been executed by the
// gateway. The receiver is not modified.
func (w WorkItem) Apply(op GatewayOp) WorkItem {
	switch op.Kind {
	case OpAssignToGroup:
		w.Group = op.Group
	case OpAssignToUser:
		w.Assignee = op.User
	case OpRelease:
		w.Assignee = ""
	}
	return w
}

// ApplyAll folds ops over the item in order.
func (w WorkItem) ApplyAll(ops []GatewayOp) WorkItem {
	for _, op := range ops {
		w = w.Apply(op)
	}
	return w
}

// LookupStatus is the outcome of reading an item that is expected to be open.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupClosed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lookup carries the result of a gateway read. Absence is a value, not an
// error: errors are reserved for unexpected failures.
type Lookup struct {
	Item   WorkItem
	Status LookupStatus
}

// Found wraps a present item.
func Found(item WorkItem) Lookup { return Lookup{Item: item, Status: LookupFound} }

// NotFound is the lookup for an unknown id.
func NotFound() Lookup { return Lookup{Status: LookupNotFound} }

// Closed is the lookup for an item that exists but has been completed.
func Closed(item WorkItem) Lookup { return Lookup{Item: item, Status: LookupClosed} }

// OK reports whether the item was found and is open.
func (l Lookup) OK() bool { return l.Status == LookupFound }

// AssignmentTarget is the requested group and/or user for an item.
type AssignmentTarget struct {
	Group  id.GroupID
	User   id.UserID
	Reason string
}

// IsRelease reports whether neither group nor user is requested.
func (t AssignmentTarget) IsRelease() bool {
	return t.Group.IsZero() && t.User.IsZero()
}

// Operation names the kind of batch for logging, metrics and the batch event.
type Operation string

const (
	OperationDistribute Operation = "distribute"
	OperationRelease    Operation = "release"
)

// BatchJob is one bulk request. Items are processed in the given order.
// CorrelationID is opaque and only used to address the completion event.
type BatchJob struct {
	Kind          id.Kind
	Items         []id.WorkItemID
	Target        AssignmentTarget
	Release       bool
	CorrelationID string
	Reason        string
	Actor         id.UserID
	SubmittedAt   time.Time
}

// Operation derives the batch operation from the release flag.
func (j BatchJob) Operation() Operation {
	if j.Release {
		return OperationRelease
	}
	return OperationDistribute
}

// EffectiveTarget is the target the resolver sees for each item: the release
// flag discards any group or user that was sent along.
func (j BatchJob) EffectiveTarget() AssignmentTarget {
	if j.Release {
		return AssignmentTarget{Reason: j.Reason}
	}
	t := j.Target
	if t.Reason == "" {
		t.Reason = j.Reason
	}
	return t
}

// BatchResult summarizes a finished batch.
type BatchResult struct {
	Applied []id.WorkItemID
	Skipped []id.WorkItemID
}

// AppliedCount is the number of items mutated.
func (r BatchResult) AppliedCount() int { return len(r.Applied) }

// OpKind is one of the gateway mutations.
type OpKind int

const (
	OpAssignToGroup OpKind = iota + 1
	OpAssignToUser
	OpRelease
)

func (k OpKind) String() string {
	switch k {
	case OpAssignToGroup:
		return "assign_to_group"
	case OpAssignToUser:
		return "assign_to_user"
	case OpRelease:
		return "release"
	default:
		return "unknown"
	}
}

// GatewayOp is a single gateway call. User on a release op is the assignee
// being cleared, which drives signal deletion.
type GatewayOp struct {
	Kind  OpKind
	Group id.GroupID
	User  id.UserID
}

func AssignToGroup(group id.GroupID) GatewayOp {
	return GatewayOp{Kind: OpAssignToGroup, Group: group}
}

func AssignToUser(user id.UserID) GatewayOp {
	return GatewayOp{Kind: OpAssignToUser, User: user}
}

func Release(previous id.UserID) GatewayOp {
	return GatewayOp{Kind: OpRelease, User: previous}
}

// IndexEntry is the search-index projection of an item's assignment state.
type IndexEntry struct {
	ID           id.WorkItemID
	Kind         id.Kind
	Assignee     id.UserID
	Group        id.GroupID
	ParentCaseID id.WorkItemID
	Open         bool
	UpdatedAt    time.Time
}

// Projection builds the index entry for the item.
func (w WorkItem) Projection(now time.Time) IndexEntry {
	return IndexEntry{
		ID:           w.ID,
		Kind:         w.Kind,
		Assignee:     w.Assignee,
		Group:        w.Group,
		ParentCaseID: w.ParentCaseID,
		Open:         w.Open,
		UpdatedAt:    now,
	}
}

// IndexQuery filters worklist searches. Zero fields match everything.
type IndexQuery struct {
	Kind       id.Kind
	Assignee   id.UserID
	Groups     []id.GroupID
	Unassigned bool
	Limit      int
}
