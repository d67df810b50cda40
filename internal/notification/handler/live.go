package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/publisher"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

// Client actions on the live-update socket.
const (
	ActionSubscribe      = "subscribe"
	ActionUnsubscribe    = "unsubscribe"
	ActionUnsubscribeAll = "unsubscribe-all"
)

// Server message types on the live-update socket.
const (
	MessageEvent = "event"
	MessageAck   = "ack"
	MessageError = "error"
)

// ClientMessage changes the session's subscriptions. An empty SubjectID
// subscribes to every subject of the topic.
type ClientMessage struct {
	Action    string       `json:"action"`
	Topic     models.Topic `json:"topic"`
	SubjectID string       `json:"subjectId,omitempty"`
}

// ServerMessage is sent to the client.
type ServerMessage struct {
	Type    string         `json:"type"`
	Event   *models.Event  `json:"event,omitempty"`
	Request *ClientMessage `json:"request,omitempty"`
	Message string         `json:"message,omitempty"`
}

type subscriptionKey struct {
	topic   models.Topic
	subject string
}

// session is one connected UI. Personal signals for its user are always
// delivered; live-updates only for subscribed topics.
type session struct {
	user id.UserID

	mu   sync.RWMutex
	subs map[subscriptionKey]struct{}

	// writeMu protects WebSocket writes from concurrent access
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (s *session) accept(event models.Event) bool {
	if event.Channel == models.ChannelPersonalSignal {
		return event.RecipientID == s.user
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.subs[subscriptionKey{topic: event.Topic, subject: event.SubjectID}]; ok {
		return true
	}
	_, ok := s.subs[subscriptionKey{topic: event.Topic}]
	return ok
}

func (s *session) apply(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subscriptionKey{topic: msg.Topic, subject: msg.SubjectID}
	switch msg.Action {
	case ActionSubscribe:
		s.subs[key] = struct{}{}
	case ActionUnsubscribe:
		delete(s.subs, key)
	case ActionUnsubscribeAll:
		clear(s.subs)
	}
}

func (s *session) send(ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.Write(ctx, websocket.MessageText, data)
}

// LiveHandler upgrades authenticated requests to a websocket that streams
// live-update and personal-signal events from the hub.
type LiveHandler struct {
	hub         *publisher.Hub
	logger      *slog.Logger
	metrics     *metrics.Metrics
	originHosts []string
}

type LiveOption func(*LiveHandler)

func WithLiveMetrics(m *metrics.Metrics) LiveOption {
	return func(h *LiveHandler) {
		h.metrics = m
	}
}

// WithOriginPatterns allows cross-origin websocket clients from these hosts.
func WithOriginPatterns(patterns ...string) LiveOption {
	return func(h *LiveHandler) {
		h.originHosts = patterns
	}
}

func NewLiveHandler(hub *publisher.Hub, logger *slog.Logger, opts ...LiveOption) *LiveHandler {
	h := &LiveHandler{hub: hub, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := requestcontext.UserID(r.Context())
	if user.IsZero() {
		http.Error(w, "Missing user", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originHosts,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	h.metrics.SessionOpened()
	defer h.metrics.SessionClosed()

	h.handleConnection(r.Context(), conn, user)
}

func (h *LiveHandler) handleConnection(ctx context.Context, conn *websocket.Conn, user id.UserID) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := &session{
		user: user,
		subs: make(map[subscriptionKey]struct{}),
		conn: conn,
	}
	sub := h.hub.Subscribe(sess.accept)
	defer sub.Close()

	go h.streamEvents(ctx, cancel, sess, sub)

	h.logger.DebugContext(ctx, "live session opened", "user_id", user)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.logger.DebugContext(ctx, "live session closed", "user_id", user, "error", err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendOrCancel(ctx, cancel, sess, ServerMessage{Type: MessageError, Message: "Invalid message format"})
			continue
		}
		switch msg.Action {
		case ActionSubscribe, ActionUnsubscribe, ActionUnsubscribeAll:
			sess.apply(msg)
			h.sendOrCancel(ctx, cancel, sess, ServerMessage{Type: MessageAck, Request: &msg})
		default:
			h.sendOrCancel(ctx, cancel, sess, ServerMessage{Type: MessageError, Message: "Unknown action"})
		}
	}
}

func (h *LiveHandler) streamEvents(ctx context.Context, cancel context.CancelFunc, sess *session, sub *publisher.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			h.sendOrCancel(ctx, cancel, sess, ServerMessage{Type: MessageEvent, Event: &event})
		}
	}
}

func (h *LiveHandler) sendOrCancel(ctx context.Context, cancel context.CancelFunc, sess *session, msg ServerMessage) {
	if err := sess.send(ctx, msg); err != nil {
		h.logger.DebugContext(ctx, "live session write failed", "user_id", sess.user, "error", err)
		cancel()
	}
}
