// Package service exposes work item assignment to the HTTP boundary: bulk
// distribute and release run in the background, single assignment and opening
// an item are synchronous.
package service

import (
	"context"
	"errors"
	"log/slog"

	nmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// Dispatcher is the subset of dispatch.Dispatcher the service drives.
type Dispatcher interface {
	RunBatch(ctx context.Context, job models.BatchJob) (models.BatchResult, error)
	ApplyItem(ctx context.Context, kind id.Kind, itemID id.WorkItemID, target models.AssignmentTarget, actor id.UserID) (models.WorkItem, bool, error)
}

type Service struct {
	dispatcher Dispatcher
	gateway    ports.Gateway
	index      ports.Index
	signals    ports.Signals
	searcher   ports.Searcher
	runner     *Runner
	logger     *slog.Logger

	maxConcurrent int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithSearcher(searcher ports.Searcher) Option {
	return func(s *Service) {
		s.searcher = searcher
	}
}

// WithMaxConcurrentBatches bounds how many batches execute at once.
func WithMaxConcurrentBatches(n int) Option {
	return func(s *Service) {
		s.maxConcurrent = n
	}
}

func New(
	dispatcher Dispatcher,
	gateway ports.Gateway,
	index ports.Index,
	signals ports.Signals,
	opts ...Option,
) (*Service, error) {
	if dispatcher == nil {
		return nil, errors.New("batch dispatcher is required")
	}
	if gateway == nil {
		return nil, errors.New("work item gateway is required")
	}
	if index == nil {
		return nil, errors.New("search index is required")
	}
	if signals == nil {
		return nil, errors.New("signal emitter is required")
	}

	s := &Service{
		dispatcher: dispatcher,
		gateway:    gateway,
		index:      index,
		signals:    signals,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = NewRunner(dispatcher.RunBatch,
		WithRunnerLogger(s.logger),
		WithMaxConcurrent(s.maxConcurrent),
	)
	return s, nil
}

// Distribute validates job and starts it in the background. The returned
// channel reports the outcome; HTTP callers learn about completion through
// the batch live-update event instead.
func (s *Service) Distribute(ctx context.Context, job models.BatchJob) (<-chan Outcome, error) {
	job.Release = false
	if job.Target.IsRelease() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "group or user is required")
	}
	return s.submit(ctx, job)
}

// Release starts a background batch that clears the assignee of each item.
func (s *Service) Release(ctx context.Context, job models.BatchJob) (<-chan Outcome, error) {
	job.Release = true
	job.Target = models.AssignmentTarget{}
	return s.submit(ctx, job)
}

func (s *Service) submit(ctx context.Context, job models.BatchJob) (<-chan Outcome, error) {
	if !job.Kind.IsWorkItem() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "kind must be task or case")
	}
	if len(job.Items) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one item is required")
	}
	if job.CorrelationID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "screen event resource id is required")
	}
	if job.Actor.IsZero() {
		job.Actor = requestcontext.UserID(ctx)
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = requestcontext.Now(ctx)
	}

	done, err := s.runner.Submit(ctx, job)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start batch")
	}
	s.logger.InfoContext(ctx, "batch submitted",
		"correlation_id", job.CorrelationID,
		"kind", job.Kind,
		"operation", job.Operation(),
		"items", len(job.Items),
		"actor", job.Actor,
	)
	return done, nil
}

// AssignSingle moves one item to target and makes the change searchable
// before returning. An empty target releases the item.
func (s *Service) AssignSingle(ctx context.Context, kind id.Kind, itemID id.WorkItemID, target models.AssignmentTarget) (models.WorkItem, error) {
	if !kind.IsWorkItem() {
		return models.WorkItem{}, dErrors.New(dErrors.CodeBadRequest, "kind must be task or case")
	}

	item, applied, err := s.dispatcher.ApplyItem(ctx, kind, itemID, target, requestcontext.UserID(ctx))
	if err != nil {
		return models.WorkItem{}, translateGatewayError(err, "failed to assign work item")
	}
	if !applied {
		return models.WorkItem{}, dErrors.New(dErrors.CodeNotFound, string(kind)+" not found or already closed")
	}
	if err := s.index.Commit(ctx); err != nil {
		return models.WorkItem{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update search index")
	}
	return item, nil
}

// OpenItem returns the item and clears the signals the current user had for
// it: the assignment signal and the "document added" signal on the case.
func (s *Service) OpenItem(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (models.WorkItem, error) {
	if !kind.IsWorkItem() {
		return models.WorkItem{}, dErrors.New(dErrors.CodeBadRequest, "kind must be task or case")
	}

	lookup, err := s.gateway.Read(ctx, kind, itemID)
	if err != nil {
		return models.WorkItem{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read work item")
	}
	if !lookup.OK() {
		return models.WorkItem{}, dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
	}

	item := lookup.Item
	viewer := requestcontext.UserID(ctx)
	if viewer.IsZero() {
		return item, nil
	}

	keys := []nmodels.SignalKey{nmodels.AssignedKey(viewer, kind, itemID)}
	caseID := item.ID
	if item.IsTask() {
		caseID = item.ParentCaseID
	}
	if !caseID.IsZero() {
		keys = append(keys, nmodels.DocumentAddedKey(viewer, caseID))
	}
	for _, key := range keys {
		if err := s.signals.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete signal on open",
				"work_item_id", itemID,
				"signal_type", key.Type,
				"error", err,
			)
		}
	}
	return item, nil
}

// Worklist searches the index. Without explicit groups the caller's own
// group memberships are used.
func (s *Service) Worklist(ctx context.Context, query models.IndexQuery) ([]models.IndexEntry, error) {
	if s.searcher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "worklist search is not configured")
	}
	if !query.Kind.IsWorkItem() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "kind must be task or case")
	}
	if len(query.Groups) == 0 && query.Assignee.IsZero() {
		query.Groups = requestcontext.Groups(ctx)
	}
	entries, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search worklist")
	}
	return entries, nil
}

// Close waits for running batches.
func (s *Service) Close(ctx context.Context) error {
	return s.runner.Close(ctx)
}

func translateGatewayError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrClosed):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "work item not found or already closed")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "work item registry unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
