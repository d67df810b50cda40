package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/handler/mocks"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/service"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/testutil"
)

type WorkItemHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestWorkItemHandlerSuite(t *testing.T) {
	suite.Run(t, new(WorkItemHandlerSuite))
}

func (s *WorkItemHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)

	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *WorkItemHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithUser(req, "alice", "team-a"))
}

func accepted() <-chan service.Outcome {
	return make(chan service.Outcome, 1)
}

func (s *WorkItemHandlerSuite) TestDistribute() {
	s.Run("dedupes items and starts the batch", func() {
		s.service.EXPECT().Distribute(gomock.Any(), models.BatchJob{
			Kind:          id.KindTask,
			Items:         []id.WorkItemID{"T1", "T2"},
			Target:        models.AssignmentTarget{Group: "team-b", User: "bob", Reason: "vakantie"},
			CorrelationID: "screen-1",
			Reason:        "vakantie",
		}).Return(accepted(), nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/tasks/distribute", map[string]any{
			"items":                 []string{"T1", " T2", "T1", ""},
			"groupId":               "team-b",
			"userId":                "bob",
			"reason":                "vakantie",
			"screenEventResourceId": "screen-1",
		}))

		testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
		testutil.AssertJSONContains(s.T(), rr, "items", float64(2))
	})

	s.Run("missing correlation id", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/tasks/distribute", map[string]any{
			"items":   []string{"T1"},
			"groupId": "team-b",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("service rejects empty target", func() {
		s.service.EXPECT().Distribute(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeBadRequest, "group or user is required"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/distribute", map[string]any{
			"items":                 []string{"Z1"},
			"screenEventResourceId": "screen-1",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("unknown kind", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/distribute", map[string]any{}))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})

	s.Run("malformed body", func() {
		rr := s.do(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/tasks/distribute", "{"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *WorkItemHandlerSuite) TestRelease() {
	s.service.EXPECT().Release(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job models.BatchJob) (<-chan service.Outcome, error) {
			s.Equal(id.KindCase, job.Kind)
			s.Equal([]id.WorkItemID{"Z1"}, job.Items)
			s.Equal("screen-9", job.CorrelationID)
			return accepted(), nil
		})

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/cases/release", map[string]any{
		"items":                 []string{"Z1"},
		"screenEventResourceId": "screen-9",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
}

func (s *WorkItemHandlerSuite) TestAssign() {
	s.Run("returns the updated item", func() {
		s.service.EXPECT().AssignSingle(gomock.Any(), id.KindTask, id.WorkItemID("T1"),
			models.AssignmentTarget{User: "bob"}).
			Return(models.WorkItem{ID: "T1", Kind: id.KindTask, Assignee: "bob", Group: "team-a", ParentCaseID: "Z1", Open: true}, nil)

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/tasks/T1/assignment", map[string]any{"userId": "bob"}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[WorkItemResponse](s.T(), rr)
		s.Equal("bob", resp.AssigneeID)
		s.Equal("Z1", resp.ParentCaseID)
	})

	s.Run("closed item", func() {
		s.service.EXPECT().AssignSingle(gomock.Any(), id.KindTask, id.WorkItemID("T2"), gomock.Any()).
			Return(models.WorkItem{}, dErrors.New(dErrors.CodeNotFound, "task not found or already closed"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/tasks/T2/assignment", map[string]any{}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *WorkItemHandlerSuite) TestOpen() {
	s.service.EXPECT().OpenItem(gomock.Any(), id.KindCase, id.WorkItemID("Z1")).
		Return(models.WorkItem{ID: "Z1", Kind: id.KindCase, Open: true}, nil)

	rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/cases/Z1"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "id", "Z1")
}

func (s *WorkItemHandlerSuite) TestWorklist() {
	s.Run("assignee me resolves to the caller", func() {
		s.service.EXPECT().Worklist(gomock.Any(), models.IndexQuery{
			Kind:     id.KindTask,
			Assignee: "alice",
			Groups:   []id.GroupID{"team-a", "team-b"},
			Limit:    20,
		}).Return([]models.IndexEntry{{ID: "T1", Kind: id.KindTask, Assignee: "alice", Open: true}}, nil)

		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/worklist/tasks?assignee=me&group=team-a&group=team-b&limit=20"))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[WorklistResponse](s.T(), rr)
		s.Require().Len(resp.Items, 1)
		s.Equal("T1", resp.Items[0].ID)
	})

	s.Run("invalid unassigned flag", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/worklist/tasks?unassigned=maybe"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})
}
