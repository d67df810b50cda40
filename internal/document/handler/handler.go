package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/models"
	lockmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/httputil"
	request "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/middleware/request"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// Documents reads and updates registry documents.
type Documents interface {
	Get(ctx context.Context, documentID id.DocumentID) (models.Document, error)
	Update(ctx context.Context, documentID id.DocumentID, patch models.Patch) error
}

// Locks manages explicit edit locks.
type Locks interface {
	Lock(ctx context.Context, documentID id.DocumentID, holder id.UserID) (lockmodels.Lock, error)
	Unlock(ctx context.Context, documentID id.DocumentID, holder id.UserID) error
	Get(ctx context.Context, documentID id.DocumentID) (lockmodels.Lock, error)
}

// Handler handles document and edit lock endpoints.
type Handler struct {
	documents Documents
	locks     Locks
	logger    *slog.Logger
}

func New(documents Documents, locks Locks, logger *slog.Logger) *Handler {
	return &Handler{documents: documents, locks: locks, logger: logger}
}

// Register registers the document routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Patch("/", h.handleUpdate)
		r.Get("/lock", h.handleGetLock)
		r.Put("/lock", h.handleLock)
		r.Delete("/lock", h.handleUnlock)
	})
}

// UpdateRequest is the body of PATCH /documents/{id}.
type UpdateRequest struct {
	models.Patch
}

// Validate implements httputil.Validatable.
func (r *UpdateRequest) Validate() error {
	if r == nil || r.Patch.IsEmpty() {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	return nil
}

// LockResponse is the HTTP view of an edit lock. The registry token stays
// server side.
type LockResponse struct {
	DocumentID string    `json:"documentId"`
	HolderID   string    `json:"holderId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toLockResponse(l lockmodels.Lock) LockResponse {
	return LockResponse{
		DocumentID: l.DocumentID.String(),
		HolderID:   l.HolderID.String(),
		CreatedAt:  l.CreatedAt,
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	documentID, ok := documentParam(w, r)
	if !ok {
		return
	}
	doc, err := h.documents.Get(r.Context(), documentID)
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to read document")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

// handleUpdate applies the patch under the caller's lock. The new version is
// announced on the live-update channel once the registry shows it.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID, ok := documentParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	if err := h.documents.Update(ctx, documentID, req.Patch); err != nil {
		h.writeError(ctx, w, err, "failed to update document")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleGetLock(w http.ResponseWriter, r *http.Request) {
	documentID, ok := documentParam(w, r)
	if !ok {
		return
	}
	lock, err := h.locks.Get(r.Context(), documentID)
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to read document lock")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLockResponse(lock))
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID, ok := documentParam(w, r)
	if !ok {
		return
	}
	lock, err := h.locks.Lock(ctx, documentID, requestcontext.UserID(ctx))
	if err != nil {
		h.writeError(ctx, w, err, "failed to lock document")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLockResponse(lock))
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID, ok := documentParam(w, r)
	if !ok {
		return
	}
	if err := h.locks.Unlock(ctx, documentID, requestcontext.UserID(ctx)); err != nil {
		h.writeError(ctx, w, err, "failed to unlock document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func documentParam(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return documentID, true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", request.GetRequestID(ctx),
	)
	httputil.WriteError(w, err)
}
