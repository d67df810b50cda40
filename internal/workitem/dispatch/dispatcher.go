// Package dispatch applies bulk assignment jobs item by item.
//
// Items are visited strictly in order. Items that vanished or were closed
// since the user selected them are skipped; any other failure stops the batch.
// Whatever happened, the search index is committed and one completion event is
// emitted for the batch before the error is handed back to the caller.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	nmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/assignment"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

const tracerName = "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/dispatch"

type Dispatcher struct {
	gateway ports.Gateway
	index   ports.Index
	updates ports.LiveUpdates
	signals ports.Signals
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// WithClock overrides the clock used to stamp index entries.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func New(
	gateway ports.Gateway,
	index ports.Index,
	updates ports.LiveUpdates,
	signals ports.Signals,
	opts ...Option,
) (*Dispatcher, error) {
	if gateway == nil {
		return nil, errors.New("work item gateway is required")
	}
	if index == nil {
		return nil, errors.New("search index is required")
	}
	if updates == nil {
		return nil, errors.New("live update publisher is required")
	}
	if signals == nil {
		return nil, errors.New("signal emitter is required")
	}

	d := &Dispatcher{
		gateway: gateway,
		index:   index,
		updates: updates,
		signals: signals,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// RunBatch applies the job to each item in order and returns what was
// mutated and what was skipped. The first unexpected failure stops the batch;
// it is returned after finalization together with the partial result.
func (d *Dispatcher) RunBatch(ctx context.Context, job models.BatchJob) (result models.BatchResult, err error) {
	ctx, span := d.tracer.Start(ctx, "workitem.batch.run",
		trace.WithAttributes(
			attribute.String("workitem.kind", string(job.Kind)),
			attribute.String("workitem.operation", string(job.Operation())),
			attribute.String("workitem.correlation_id", job.CorrelationID),
			attribute.Int("workitem.batch_size", len(job.Items)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	start := time.Now()
	d.metrics.BatchStarted()

	defer func() {
		err = d.finalize(ctx, job, result, err)
		d.metrics.BatchFinished()
		d.metrics.RecordBatch(string(job.Operation()), err != nil, time.Since(start))
		span.SetAttributes(
			attribute.Int("workitem.applied", len(result.Applied)),
			attribute.Int("workitem.skipped", len(result.Skipped)),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	target := job.EffectiveTarget()
	for _, itemID := range job.Items {
		_, applied, applyErr := d.ApplyItem(ctx, job.Kind, itemID, target, job.Actor)
		if applyErr != nil {
			d.metrics.IncrementItem("failed")
			return result, fmt.Errorf("work item %s: %w", itemID, applyErr)
		}
		if !applied {
			d.metrics.IncrementItem("skipped")
			result.Skipped = append(result.Skipped, itemID)
			continue
		}
		d.metrics.IncrementItem("applied")
		result.Applied = append(result.Applied, itemID)
	}
	return result, nil
}

// ApplyItem moves a single open item to target. It reports applied=false when
// the item is missing or closed. The index entry is only buffered; callers
// outside a batch must Commit the index themselves.
func (d *Dispatcher) ApplyItem(
	ctx context.Context,
	kind id.Kind,
	itemID id.WorkItemID,
	target models.AssignmentTarget,
	actor id.UserID,
) (models.WorkItem, bool, error) {
	lookup, err := d.gateway.ReadOpen(ctx, kind, itemID)
	if err != nil {
		return models.WorkItem{}, false, fmt.Errorf("read work item: %w", err)
	}
	if !lookup.OK() {
		d.logger.InfoContext(ctx, "skipping work item",
			"work_item_id", itemID,
			"kind", kind,
			"status", lookup.Status.String(),
		)
		return lookup.Item, false, nil
	}

	current := lookup.Item
	ops := assignment.Resolve(current, target)
	for _, op := range ops {
		if err := d.execute(ctx, current, op, target.Reason); err != nil {
			return current, false, err
		}
	}

	updated := current.ApplyAll(ops)
	if err := d.index.Upsert(ctx, itemID, updated.Projection(d.now())); err != nil {
		return updated, false, fmt.Errorf("index work item: %w", err)
	}

	d.syncSignals(ctx, current, updated, actor)
	d.publishItemEvents(ctx, updated)
	return updated, true, nil
}

func (d *Dispatcher) execute(ctx context.Context, item models.WorkItem, op models.GatewayOp, reason string) error {
	var err error
	switch op.Kind {
	case models.OpAssignToGroup:
		err = d.gateway.AssignToGroup(ctx, item.Kind, item.ID, op.Group, reason)
	case models.OpAssignToUser:
		err = d.gateway.AssignToUser(ctx, item.Kind, item.ID, op.User, reason)
	case models.OpRelease:
		err = d.gateway.Release(ctx, item.Kind, item.ID, reason)
	default:
		return fmt.Errorf("unsupported gateway op %s", op.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op.Kind, err)
	}
	return nil
}

// syncSignals deletes the signal of a cleared assignee before creating the one
// for the new assignee. Users do not get signals for work they take themselves.
// Signal failures are logged; the assignment itself already happened.
func (d *Dispatcher) syncSignals(ctx context.Context, before, after models.WorkItem, actor id.UserID) {
	if before.Assignee == after.Assignee {
		return
	}
	if before.HasAssignee() {
		key := nmodels.AssignedKey(before.Assignee, before.Kind, before.ID)
		if err := d.signals.Delete(ctx, key); err != nil {
			d.logger.WarnContext(ctx, "failed to delete assignment signal",
				"work_item_id", before.ID,
				"recipient", before.Assignee,
				"error", err,
			)
		}
	}
	if after.HasAssignee() && after.Assignee != actor {
		signal := nmodels.Signal{
			SignalKey: nmodels.AssignedKey(after.Assignee, after.Kind, after.ID),
			CreatedAt: d.now(),
		}
		if err := d.signals.Create(ctx, signal); err != nil {
			d.logger.WarnContext(ctx, "failed to create assignment signal",
				"work_item_id", after.ID,
				"recipient", after.Assignee,
				"error", err,
			)
		}
	}
}

// publishItemEvents emits the item-scoped event followed by the event for the
// collection that lists the item.
func (d *Dispatcher) publishItemEvents(ctx context.Context, item models.WorkItem) {
	d.updates.Publish(ctx, nmodels.ItemUpdated(item.Kind, item.ID.String()))
	d.updates.Publish(ctx, parentEvent(item))
}

func parentEvent(item models.WorkItem) nmodels.Event {
	if item.IsTask() && !item.ParentCaseID.IsZero() {
		return nmodels.CaseTasksUpdated(item.ParentCaseID)
	}
	return nmodels.WorklistUpdated(item.Kind, "")
}

func (d *Dispatcher) finalize(ctx context.Context, job models.BatchJob, result models.BatchResult, runErr error) error {
	commitErr := d.index.Commit(ctx)
	if commitErr != nil {
		d.logger.ErrorContext(ctx, "failed to commit search index",
			"correlation_id", job.CorrelationID,
			"error", commitErr,
		)
		commitErr = fmt.Errorf("commit search index: %w", commitErr)
	}

	summary := nmodels.BatchSummary{
		Operation: string(job.Operation()),
		Items:     result.Applied,
		Skipped:   len(result.Skipped),
		Failed:    runErr != nil || commitErr != nil,
	}
	d.updates.Publish(ctx, nmodels.BatchCompleted(job.Kind, job.CorrelationID, summary))

	if commitErr == nil {
		return runErr
	}
	if runErr == nil {
		return commitErr
	}
	return errors.Join(runErr, commitErr)
}
