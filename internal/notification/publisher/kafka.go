package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/circuit"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

var _ ports.Sink = (*KafkaSink)(nil)

// Producer is the subset of the platform Kafka producer the sink needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// KafkaSink forwards events to a Kafka topic so that other application
// instances can deliver them to their own websocket sessions. Publish only
// buffers; Run drains the buffer in the background. While the broker is
// failing the circuit opens and events stay buffered, oldest dropped first.
type KafkaSink struct {
	producer Producer
	topic    string
	buffer   *RingBuffer
	breaker  *circuit.Breaker
	wake     chan struct{}

	flushInterval time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type KafkaOption func(*KafkaSink)

func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(s *KafkaSink) {
		s.logger = logger
	}
}

func WithKafkaMetrics(m *metrics.Metrics) KafkaOption {
	return func(s *KafkaSink) {
		s.metrics = m
	}
}

func WithBufferSize(n int) KafkaOption {
	return func(s *KafkaSink) {
		s.buffer = NewRingBuffer(n)
	}
}

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(s *KafkaSink) {
		s.breaker = b
	}
}

func WithFlushInterval(d time.Duration) KafkaOption {
	return func(s *KafkaSink) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

func NewKafkaSink(producer Producer, topic string, opts ...KafkaOption) (*KafkaSink, error) {
	if producer == nil {
		return nil, errors.New("kafka producer is required")
	}
	if topic == "" {
		return nil, errors.New("live update topic is required")
	}
	s := &KafkaSink{
		producer:      producer,
		topic:         topic,
		buffer:        NewRingBuffer(10000),
		breaker:       circuit.New("live-update-kafka", circuit.WithFailureThreshold(5), circuit.WithCooldown(10*time.Second)),
		wake:          make(chan struct{}, 1),
		flushInterval: time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Publish buffers the event and never blocks.
func (s *KafkaSink) Publish(_ context.Context, event models.Event) {
	if s.buffer.Enqueue(event) {
		s.metrics.IncrementDropped("kafka", "buffer_full")
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drains the buffer until ctx is done, then makes one last attempt with
// a short deadline. Events are sent one at a time so a failure never
// reorders the buffer.
func (s *KafkaSink) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			s.flush(drainCtx)
			cancel()
			return nil
		case <-s.wake:
			s.flush(ctx)
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *KafkaSink) flush(ctx context.Context) {
	for s.breaker.Allow() {
		next := s.buffer.DequeueBatch(1)
		if len(next) == 0 {
			return
		}
		if err := s.send(ctx, next[0]); err != nil {
			s.metrics.IncrementDropped("kafka", "produce_error")
			if _, change := s.breaker.RecordFailure(); change.Opened {
				s.logger.WarnContext(ctx, "live update publisher circuit opened", "error", err)
			}
			continue
		}
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "live update publisher circuit closed")
		}
	}
}

func (s *KafkaSink) send(ctx context.Context, event models.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	headers := map[string]string{"channel": string(event.Channel)}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		headers["request_id"] = reqID
	}
	return s.producer.Publish(ctx, s.topic, []byte(event.Key()), value, headers)
}

// Pending returns the number of buffered events.
func (s *KafkaSink) Pending() int { return s.buffer.Len() }
