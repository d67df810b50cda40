// Package handler exposes notifications over HTTP: the personal signal list
// and the live-update websocket.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/httputil"
	request "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/middleware/request"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// Signals lists a user's personal signals.
type Signals interface {
	List(ctx context.Context, recipient id.UserID) ([]models.Signal, error)
}

type SignalsHandler struct {
	signals Signals
	live    http.Handler
	logger  *slog.Logger
}

// NewSignalsHandler serves the signal list and, when live is not nil, the
// websocket at /live.
func NewSignalsHandler(signals Signals, live http.Handler, logger *slog.Logger) *SignalsHandler {
	return &SignalsHandler{signals: signals, live: live, logger: logger}
}

func (h *SignalsHandler) Register(r chi.Router) {
	r.Get("/signals", h.handleList)
	if h.live != nil {
		r.Handle("/live", h.live)
	}
}

// SignalResponse is one personal signal.
type SignalResponse struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subjectId"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignalsResponse struct {
	Signals []SignalResponse `json:"signals"`
}

func (h *SignalsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signals, err := h.signals.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list signals",
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	resp := SignalsResponse{Signals: make([]SignalResponse, len(signals))}
	for i, s := range signals {
		resp.Signals[i] = SignalResponse{
			Type:      string(s.Type),
			SubjectID: s.SubjectID,
			Kind:      string(s.Type.SubjectKind()),
			Detail:    s.Detail,
			CreatedAt: s.CreatedAt,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
