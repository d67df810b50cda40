package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	nmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports/mocks"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// =============================================================================
// Dispatcher Test Suite
// =============================================================================
// The dispatcher is tested against mocked collaborators so the exact sequence
// of gateway calls, index writes and events can be asserted per item.

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type DispatcherSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	gateway    *mocks.MockGateway
	index      *mocks.MockIndex
	updates    *mocks.MockLiveUpdates
	signals    *mocks.MockSignals
	dispatcher *Dispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gateway = mocks.NewMockGateway(s.ctrl)
	s.index = mocks.NewMockIndex(s.ctrl)
	s.updates = mocks.NewMockLiveUpdates(s.ctrl)
	s.signals = mocks.NewMockSignals(s.ctrl)

	var err error
	s.dispatcher, err = New(s.gateway, s.index, s.updates, s.signals,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	)
	s.Require().NoError(err)
}

func (s *DispatcherSuite) TearDownTest() {
	s.ctrl.Finish()
}

func openTask(itemID, caseID string) models.WorkItem {
	return models.WorkItem{
		ID:           id.WorkItemID(itemID),
		Kind:         id.KindTask,
		ParentCaseID: id.WorkItemID(caseID),
		Open:         true,
	}
}

func taskJob(target models.AssignmentTarget, items ...string) models.BatchJob {
	ids := make([]id.WorkItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, id.WorkItemID(item))
	}
	return models.BatchJob{
		Kind:          id.KindTask,
		Items:         ids,
		Target:        target,
		CorrelationID: "screen-42",
		Reason:        "vakantie",
		Actor:         "coordinator",
	}
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *DispatcherSuite) TestNew() {
	s.Run("nil gateway returns error", func() {
		_, err := New(nil, s.index, s.updates, s.signals)
		s.ErrorContains(err, "work item gateway is required")
	})

	s.Run("nil index returns error", func() {
		_, err := New(s.gateway, nil, s.updates, s.signals)
		s.ErrorContains(err, "search index is required")
	})

	s.Run("nil live updates returns error", func() {
		_, err := New(s.gateway, s.index, nil, s.signals)
		s.ErrorContains(err, "live update publisher is required")
	})

	s.Run("nil signals returns error", func() {
		_, err := New(s.gateway, s.index, s.updates, nil)
		s.ErrorContains(err, "signal emitter is required")
	})
}

// =============================================================================
// RunBatch Tests
// =============================================================================

func (s *DispatcherSuite) TestRunBatchStopsAtFirstUnexpectedFailure() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	boom := errors.New("gateway unavailable")
	job := taskJob(models.AssignmentTarget{Group: "G"}, "T1", "T2")

	gomock.InOrder(
		s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil),
		s.gateway.EXPECT().AssignToGroup(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.GroupID("G"), "vakantie").Return(nil),
		s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), models.IndexEntry{
			ID: "T1", Kind: id.KindTask, Group: "G", ParentCaseID: "Z1", Open: true, UpdatedAt: fixedNow,
		}).Return(nil),
		s.updates.EXPECT().Publish(gomock.Any(), nmodels.ItemUpdated(id.KindTask, "T1")),
		s.updates.EXPECT().Publish(gomock.Any(), nmodels.CaseTasksUpdated("Z1")),
		s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T2")).Return(models.Lookup{}, boom),
		s.index.EXPECT().Commit(gomock.Any()).Return(nil),
		s.updates.EXPECT().Publish(gomock.Any(), nmodels.BatchCompleted(id.KindTask, "screen-42", nmodels.BatchSummary{
			Operation: "distribute",
			Items:     []id.WorkItemID{"T1"},
			Failed:    true,
		})),
	)

	result, err := s.dispatcher.RunBatch(ctx, job)
	s.Require().Error(err)
	s.ErrorIs(err, boom)
	s.Contains(err.Error(), "T2")
	s.Equal([]id.WorkItemID{"T1"}, result.Applied)
	s.Equal(1, result.AppliedCount())
}

func (s *DispatcherSuite) TestRunBatchSkipsMissingAndClosedItems() {
	ctx := context.Background()
	job := taskJob(models.AssignmentTarget{Group: "G"}, "gone", "done")

	closed := openTask("done", "Z1")
	closed.Open = false

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("gone")).Return(models.NotFound(), nil)
	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("done")).Return(models.Closed(closed), nil)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.BatchCompleted(id.KindTask, "screen-42", nmodels.BatchSummary{
		Operation: "distribute",
		Skipped:   2,
	}))

	result, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
	s.Empty(result.Applied)
	s.Equal([]id.WorkItemID{"gone", "done"}, result.Skipped)
}

func (s *DispatcherSuite) TestRunBatchEmitsExactlyTwoEventsPerMutatedItem() {
	ctx := context.Background()
	job := models.BatchJob{
		Kind:          id.KindCase,
		Items:         []id.WorkItemID{"Z1", "Z2"},
		Target:        models.AssignmentTarget{Group: "G"},
		CorrelationID: "screen-7",
	}

	for _, caseID := range []string{"Z1", "Z2"} {
		item := models.WorkItem{ID: id.WorkItemID(caseID), Kind: id.KindCase, Open: true}
		s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindCase, item.ID).Return(models.Found(item), nil)
		s.gateway.EXPECT().AssignToGroup(gomock.Any(), id.KindCase, item.ID, id.GroupID("G"), "").Return(nil)
		s.index.EXPECT().Upsert(gomock.Any(), item.ID, gomock.Any()).Return(nil)
		s.updates.EXPECT().Publish(gomock.Any(), nmodels.ItemUpdated(id.KindCase, caseID)).Times(1)
	}
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.WorklistUpdated(id.KindCase, "")).Times(2)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.BatchCompleted(id.KindCase, "screen-7", nmodels.BatchSummary{
		Operation: "distribute",
		Items:     []id.WorkItemID{"Z1", "Z2"},
	})).Times(1)

	result, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
	s.Equal(2, result.AppliedCount())
}

func (s *DispatcherSuite) TestRunBatchFinalizesWhenFirstItemFails() {
	ctx := context.Background()
	job := taskJob(models.AssignmentTarget{Group: "G"}, "T1")
	t1 := openTask("T1", "Z1")
	boom := errors.New("assign failed")

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil)
	s.gateway.EXPECT().AssignToGroup(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.GroupID("G"), "vakantie").Return(boom)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.BatchCompleted(id.KindTask, "screen-42", nmodels.BatchSummary{
		Operation: "distribute",
		Failed:    true,
	}))

	result, err := s.dispatcher.RunBatch(ctx, job)
	s.ErrorIs(err, boom)
	s.Empty(result.Applied)
}

func (s *DispatcherSuite) TestRunBatchReturnsCommitFailure() {
	ctx := context.Background()
	job := taskJob(models.AssignmentTarget{Group: "G"})
	commitErr := errors.New("index down")

	s.index.EXPECT().Commit(gomock.Any()).Return(commitErr)
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.ErrorIs(err, commitErr)
}

func (s *DispatcherSuite) TestRunBatchJoinsItemAndCommitFailures() {
	ctx := context.Background()
	job := taskJob(models.AssignmentTarget{Group: "G"}, "T1")
	readErr := errors.New("read failed")
	commitErr := errors.New("index down")

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Lookup{}, readErr)
	s.index.EXPECT().Commit(gomock.Any()).Return(commitErr)
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.ErrorIs(err, readErr)
	s.ErrorIs(err, commitErr)
}

// =============================================================================
// Assignment Signal Tests
// =============================================================================

func (s *DispatcherSuite) TestGroupMoveClearsTaskAssignee() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	t1.Assignee = "alice"
	t1.Group = "old"
	job := taskJob(models.AssignmentTarget{Group: "G"}, "T1")

	gomock.InOrder(
		s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil),
		s.gateway.EXPECT().AssignToGroup(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.GroupID("G"), "vakantie").Return(nil),
		s.gateway.EXPECT().Release(gomock.Any(), id.KindTask, id.WorkItemID("T1"), "vakantie").Return(nil),
		s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), models.IndexEntry{
			ID: "T1", Kind: id.KindTask, Group: "G", ParentCaseID: "Z1", Open: true, UpdatedAt: fixedNow,
		}).Return(nil),
		s.signals.EXPECT().Delete(gomock.Any(), nmodels.AssignedKey("alice", id.KindTask, "T1")).Return(nil),
	)
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(3)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
}

func (s *DispatcherSuite) TestReassignmentDeletesOldSignalBeforeCreatingNew() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	t1.Assignee = "alice"
	job := taskJob(models.AssignmentTarget{User: "bob"}, "T1")

	gomock.InOrder(
		s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil),
		s.gateway.EXPECT().AssignToUser(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.UserID("bob"), "vakantie").Return(nil),
		s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), gomock.Any()).Return(nil),
		s.signals.EXPECT().Delete(gomock.Any(), nmodels.AssignedKey("alice", id.KindTask, "T1")).Return(nil),
		s.signals.EXPECT().Create(gomock.Any(), nmodels.Signal{
			SignalKey: nmodels.AssignedKey("bob", id.KindTask, "T1"),
			CreatedAt: fixedNow,
		}).Return(nil),
	)
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(3)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
}

func (s *DispatcherSuite) TestSelfAssignmentRaisesNoSignal() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	job := taskJob(models.AssignmentTarget{User: "coordinator"}, "T1")

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil)
	s.gateway.EXPECT().AssignToUser(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.UserID("coordinator"), "vakantie").Return(nil)
	s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), gomock.Any()).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(3)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
}

func (s *DispatcherSuite) TestSignalFailureDoesNotFailBatch() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	job := taskJob(models.AssignmentTarget{User: "bob"}, "T1")

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil)
	s.gateway.EXPECT().AssignToUser(gomock.Any(), id.KindTask, id.WorkItemID("T1"), id.UserID("bob"), "vakantie").Return(nil)
	s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), gomock.Any()).Return(nil)
	s.signals.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("signal store down"))
	s.updates.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(3)
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)

	result, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
	s.Equal(1, result.AppliedCount())
}

func (s *DispatcherSuite) TestReleaseBatchIgnoresTarget() {
	ctx := context.Background()
	t1 := openTask("T1", "Z1")
	t1.Assignee = "alice"
	t1.Group = "G"
	job := taskJob(models.AssignmentTarget{Group: "other", User: "bob"}, "T1")
	job.Release = true

	s.gateway.EXPECT().ReadOpen(gomock.Any(), id.KindTask, id.WorkItemID("T1")).Return(models.Found(t1), nil)
	s.gateway.EXPECT().Release(gomock.Any(), id.KindTask, id.WorkItemID("T1"), "vakantie").Return(nil)
	s.index.EXPECT().Upsert(gomock.Any(), id.WorkItemID("T1"), models.IndexEntry{
		ID: "T1", Kind: id.KindTask, Group: "G", ParentCaseID: "Z1", Open: true, UpdatedAt: fixedNow,
	}).Return(nil)
	s.signals.EXPECT().Delete(gomock.Any(), nmodels.AssignedKey("alice", id.KindTask, "T1")).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.ItemUpdated(id.KindTask, "T1"))
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.CaseTasksUpdated("Z1"))
	s.index.EXPECT().Commit(gomock.Any()).Return(nil)
	s.updates.EXPECT().Publish(gomock.Any(), nmodels.BatchCompleted(id.KindTask, "screen-42", nmodels.BatchSummary{
		Operation: "release",
		Items:     []id.WorkItemID{"T1"},
	}))

	_, err := s.dispatcher.RunBatch(ctx, job)
	s.NoError(err)
}
