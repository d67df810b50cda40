package models

import (
	"fmt"
	"time"

	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Channel separates coarse UI refresh broadcasts from targeted signals.
type Channel string

const (
	ChannelLiveUpdate     Channel = "live-update"
	ChannelPersonalSignal Channel = "personal-signal"
)

// Opcode is the change an event reports.
type Opcode string

const (
	OpcodeCreated Opcode = "created"
	OpcodeUpdated Opcode = "updated"
	OpcodeDeleted Opcode = "deleted"
)

// Scope narrows a topic to a single object or one of its collections.
type Scope string

const (
	ScopeItem          Scope = "item"
	ScopeCaseTasks     Scope = "case-tasks"
	ScopeCaseDocuments Scope = "case-documents"
	ScopeWorklist      Scope = "worklist"
	ScopeSignals       Scope = "signals"
)

// Topic addresses an event: kind of object crossed with scope.
type Topic struct {
	Kind  id.Kind `json:"kind"`
	Scope Scope   `json:"scope"`
}

func (t Topic) String() string {
	return fmt.Sprintf("%s/%s", t.Kind, t.Scope)
}

// BatchSummary is attached to the single completion event of a batch. Items
// lists only the work items that were mutated.
type BatchSummary struct {
	Operation string          `json:"operation"`
	Items     []id.WorkItemID `json:"items"`
	Skipped   int             `json:"skipped"`
	Failed    bool            `json:"failed"`
}

// Event is one logical notification. RecipientID and SignalType are only set
// on the personal-signal channel; Batch only on batch completion events.
type Event struct {
	Channel     Channel       `json:"channel"`
	Topic       Topic         `json:"topic"`
	SubjectID   string        `json:"subjectId"`
	RecipientID id.UserID     `json:"recipientId,omitempty"`
	SignalType  SignalType    `json:"signalType,omitempty"`
	Opcode      Opcode        `json:"opcode"`
	Batch       *BatchSummary `json:"batch,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Key identifies the subject an event is about, used for partitioning.
func (e Event) Key() string {
	return e.Topic.String() + "/" + e.SubjectID
}

// ItemUpdated is the item-scoped live-update for a task, case or document.
func ItemUpdated(kind id.Kind, subject string) Event {
	return Event{
		Channel:   ChannelLiveUpdate,
		Topic:     Topic{Kind: kind, Scope: ScopeItem},
		SubjectID: subject,
		Opcode:    OpcodeUpdated,
	}
}

// CaseTasksUpdated reports a change in the task collection of a case.
func CaseTasksUpdated(caseID id.WorkItemID) Event {
	return Event{
		Channel:   ChannelLiveUpdate,
		Topic:     Topic{Kind: id.KindCase, Scope: ScopeCaseTasks},
		SubjectID: caseID.String(),
		Opcode:    OpcodeUpdated,
	}
}

// CaseDocumentsUpdated reports a change in the documents linked to a case.
func CaseDocumentsUpdated(caseID id.WorkItemID) Event {
	return Event{
		Channel:   ChannelLiveUpdate,
		Topic:     Topic{Kind: id.KindCase, Scope: ScopeCaseDocuments},
		SubjectID: caseID.String(),
		Opcode:    OpcodeUpdated,
	}
}

// WorklistUpdated reports a change in the worklist of the kind. An empty
// subject addresses every session showing that worklist.
func WorklistUpdated(kind id.Kind, subject string) Event {
	return Event{
		Channel:   ChannelLiveUpdate,
		Topic:     Topic{Kind: kind, Scope: ScopeWorklist},
		SubjectID: subject,
		Opcode:    OpcodeUpdated,
	}
}

// BatchCompleted is the worklist-scoped event addressed to a correlation id.
func BatchCompleted(kind id.Kind, correlationID string, summary BatchSummary) Event {
	ev := WorklistUpdated(kind, correlationID)
	ev.Batch = &summary
	return ev
}

// SignalType names the condition a personal signal reports.
type SignalType string

const (
	SignalTaskAssigned      SignalType = "task-assigned"
	SignalCaseAssigned      SignalType = "case-assigned"
	SignalCaseDocumentAdded SignalType = "case-document-added"
)

// SubjectKind is the kind of object the signal's subject id refers to.
func (t SignalType) SubjectKind() id.Kind {
	if t == SignalTaskAssigned {
		return id.KindTask
	}
	return id.KindCase
}

// AssignedSignal is the "assigned to me" signal type for a work item kind.
func AssignedSignal(kind id.Kind) SignalType {
	if kind == id.KindTask {
		return SignalTaskAssigned
	}
	return SignalCaseAssigned
}

// SignalKey is the identity of a personal signal; at most one exists per key.
type SignalKey struct {
	Recipient id.UserID  `json:"recipient"`
	Type      SignalType `json:"type"`
	SubjectID string     `json:"subjectId"`
}

// Signal is a stored personal signal.
type Signal struct {
	SignalKey
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssignedKey is the key of the "assigned to me" signal for an item.
func AssignedKey(recipient id.UserID, kind id.Kind, item id.WorkItemID) SignalKey {
	return SignalKey{Recipient: recipient, Type: AssignedSignal(kind), SubjectID: item.String()}
}

// DocumentAddedKey is the key of the "document added" signal on a case.
func DocumentAddedKey(recipient id.UserID, caseID id.WorkItemID) SignalKey {
	return SignalKey{Recipient: recipient, Type: SignalCaseDocumentAdded, SubjectID: caseID.String()}
}

func signalEvent(key SignalKey, op Opcode) Event {
	return Event{
		Channel:     ChannelPersonalSignal,
		Topic:       Topic{Kind: key.Type.SubjectKind(), Scope: ScopeSignals},
		SubjectID:   key.SubjectID,
		RecipientID: key.Recipient,
		SignalType:  key.Type,
		Opcode:      op,
	}
}

// SignalCreated is the personal-signal event for a newly stored signal.
func SignalCreated(key SignalKey) Event { return signalEvent(key, OpcodeCreated) }

// SignalDeleted is the personal-signal event for a removed signal.
func SignalDeleted(key SignalKey) Event { return signalEvent(key, OpcodeDeleted) }
