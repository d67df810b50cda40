package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	wmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// Registry resources and actions this package handles.
const (
	ResourceCase         = "zaak"
	ResourceCaseDocument = "zaakinformatieobject"

	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionPartialUpdate = "partial_update"
	ActionDestroy       = "destroy"
)

// CaseReader reads cases from the work item gateway, closed ones included.
type CaseReader interface {
	Read(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (wmodels.Lookup, error)
}

// Emitter stores signals and publishes events.
type Emitter interface {
	Publish(ctx context.Context, event models.Event)
	Create(ctx context.Context, signal models.Signal) error
	DeleteBySubject(ctx context.Context, subjectID string, types ...models.SignalType) error
}

// Index keeps worklists in step with case changes made outside this service.
type Index interface {
	Upsert(ctx context.Context, itemID id.WorkItemID, entry wmodels.IndexEntry) error
	Commit(ctx context.Context) error
}

// DocumentAddedHandler tells the case's assignee that a document was linked
// to their case and refreshes the case's document list.
type DocumentAddedHandler struct {
	cases   CaseReader
	emitter Emitter
	logger  *slog.Logger
}

func NewDocumentAddedHandler(cases CaseReader, emitter Emitter, logger *slog.Logger) *DocumentAddedHandler {
	return &DocumentAddedHandler{cases: cases, emitter: emitter, logger: logger}
}

func (h *DocumentAddedHandler) Handle(ctx context.Context, n Notification) error {
	caseID, err := id.ParseWorkItemID(n.MainObjectID)
	if err != nil {
		h.logger.WarnContext(ctx, "document notification without case", "resource_id", n.ResourceID)
		return nil
	}

	h.emitter.Publish(ctx, models.CaseDocumentsUpdated(caseID))

	lookup, err := h.cases.Read(ctx, id.KindCase, caseID)
	if err != nil {
		return fmt.Errorf("read case %s: %w", caseID, err)
	}
	if !lookup.OK() || !lookup.Item.Open || !lookup.Item.HasAssignee() {
		return nil
	}

	return h.emitter.Create(ctx, models.Signal{
		SignalKey: models.DocumentAddedKey(lookup.Item.Assignee, caseID),
		Detail:    n.ResourceID,
	})
}

// CaseChangedHandler refreshes views of a case changed in the registry. When
// the case is closed or removed its signals no longer make sense and are
// deleted for every recipient.
type CaseChangedHandler struct {
	cases   CaseReader
	emitter Emitter
	index   Index
	logger  *slog.Logger
}

func NewCaseChangedHandler(cases CaseReader, emitter Emitter, index Index, logger *slog.Logger) *CaseChangedHandler {
	return &CaseChangedHandler{cases: cases, emitter: emitter, index: index, logger: logger}
}

func (h *CaseChangedHandler) Handle(ctx context.Context, n Notification) error {
	caseID, err := id.ParseWorkItemID(n.MainObjectID)
	if err != nil {
		h.logger.WarnContext(ctx, "case notification without case id", "action", n.Action)
		return nil
	}

	lookup, err := h.cases.Read(ctx, id.KindCase, caseID)
	if err != nil {
		return fmt.Errorf("read case %s: %w", caseID, err)
	}

	var errs []error
	if h.index != nil {
		now := requestcontext.Now(ctx)
		entry := lookup.Item.Projection(now)
		if lookup.Status == wmodels.LookupNotFound {
			// Destroyed cases stay in the index as closed entries so worklists drop them.
			entry = wmodels.IndexEntry{ID: caseID, Kind: id.KindCase, Open: false, UpdatedAt: now}
		}
		if err := h.index.Upsert(ctx, caseID, entry); err != nil {
			errs = append(errs, fmt.Errorf("index case %s: %w", caseID, err))
		} else if err := h.index.Commit(ctx); err != nil {
			errs = append(errs, fmt.Errorf("commit search index: %w", err))
		}
	}

	if !lookup.OK() || !lookup.Item.Open {
		if err := h.emitter.DeleteBySubject(ctx, caseID.String(),
			models.SignalCaseAssigned, models.SignalCaseDocumentAdded); err != nil {
			errs = append(errs, err)
		}
	}

	h.emitter.Publish(ctx, models.ItemUpdated(id.KindCase, caseID.String()))
	h.emitter.Publish(ctx, models.WorklistUpdated(id.KindCase, ""))
	return errors.Join(errs...)
}

// RegisterDefaults wires the registry notifications this service reacts to.
func RegisterDefaults(r *Router, cases CaseReader, emitter Emitter, index Index, logger *slog.Logger) {
	r.Register(ResourceCaseDocument, ActionCreate, NewDocumentAddedHandler(cases, emitter, logger))

	changed := NewCaseChangedHandler(cases, emitter, index, logger)
	for _, action := range []string{ActionUpdate, ActionPartialUpdate, ActionDestroy} {
		r.Register(ResourceCase, action, changed)
	}
}
