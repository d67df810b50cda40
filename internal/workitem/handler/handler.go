package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/service"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/httputil"
	request "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/middleware/request"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the work item operations exposed over HTTP.
type Service interface {
	Distribute(ctx context.Context, job models.BatchJob) (<-chan service.Outcome, error)
	Release(ctx context.Context, job models.BatchJob) (<-chan service.Outcome, error)
	AssignSingle(ctx context.Context, kind id.Kind, itemID id.WorkItemID, target models.AssignmentTarget) (models.WorkItem, error)
	OpenItem(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (models.WorkItem, error)
	Worklist(ctx context.Context, query models.IndexQuery) ([]models.IndexEntry, error)
}

// Handler handles task and case assignment endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new work item Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the work item routes with the chi router. Callers are
// expected to have applied authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/worklist/{kind}", h.handleWorklist)
	r.Route("/{kind}", func(r chi.Router) {
		r.Post("/distribute", h.handleDistribute)
		r.Post("/release", h.handleRelease)
		r.Get("/{id}", h.handleOpen)
		r.Put("/{id}/assignment", h.handleAssign)
	})
}

// handleDistribute assigns a batch of items to a group and/or user. The batch
// runs in the background; completion is announced on the live-update channel.
func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.service.Distribute)
}

// handleRelease clears the assignee of a batch of items.
func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	h.handleBatch(w, r, h.service.Release)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request, start func(context.Context, models.BatchJob) (<-chan service.Outcome, error)) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := start(ctx, req.Job(kind)); err != nil {
		h.writeServiceError(ctx, w, err, "failed to start batch")
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, BatchAcceptedResponse{
		ScreenEventResourceID: req.ScreenEventResourceID,
		Items:                 len(req.Items),
	})
}

// handleAssign moves a single item and returns it once searchable.
func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseWorkItemID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssignRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	item, err := h.service.AssignSingle(ctx, kind, itemID, req.Target())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to assign work item")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWorkItemResponse(item))
}

// handleOpen returns an item and clears the caller's signals for it.
func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	itemID, err := id.ParseWorkItemID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	item, err := h.service.OpenItem(ctx, kind, itemID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to open work item")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWorkItemResponse(item))
}

// handleWorklist lists open items. Supported query parameters: assignee
// ("me" for the caller), group (repeatable), unassigned and limit.
func (h *Handler) handleWorklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	query, err := parseWorklistQuery(r, kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.Worklist(ctx, query)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load worklist")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWorklistResponse(entries))
}

func parseWorklistQuery(r *http.Request, kind id.Kind) (models.IndexQuery, error) {
	values := r.URL.Query()
	query := models.IndexQuery{Kind: kind}

	switch assignee := values.Get("assignee"); assignee {
	case "":
	case "me":
		query.Assignee = requestcontext.UserID(r.Context())
	default:
		user, err := id.ParseUserID(assignee)
		if err != nil {
			return query, err
		}
		query.Assignee = user
	}
	for _, g := range values["group"] {
		group, err := id.ParseGroupID(g)
		if err != nil {
			return query, err
		}
		query.Groups = append(query.Groups, group)
	}
	if raw := values.Get("unassigned"); raw != "" {
		unassigned, err := strconv.ParseBool(raw)
		if err != nil {
			return query, dErrors.New(dErrors.CodeInvalidInput, "unassigned must be a boolean")
		}
		query.Unassigned = unassigned
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return query, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive number")
		}
		query.Limit = limit
	}
	return query, nil
}

func (h *Handler) kindParam(w http.ResponseWriter, r *http.Request) (id.Kind, bool) {
	kind, err := id.ParseWorkItemKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown work item kind"))
		return "", false
	}
	return kind, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
