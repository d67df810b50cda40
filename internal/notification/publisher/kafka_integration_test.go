//go:build integration

package publisher_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/publisher"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/consumer"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/producer"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/testutil/containers"
)

type KafkaRelaySuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	logger   *slog.Logger
}

func TestKafkaRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaRelaySuite))
}

func (s *KafkaRelaySuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestEventsReachOtherInstances publishes through the Kafka sink of one
// instance and expects the relay of another instance to hand the events to
// its hub in order.
func (s *KafkaRelaySuite) TestEventsReachOtherInstances() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	topic := "live-updates-" + uuid.NewString()
	s.Require().NoError(kafka.EnsureTopics(ctx, s.redpanda.Brokers, kafka.TopicSpec{
		Name: topic, Partitions: 1, ReplicationFactor: 1,
	}))

	prod, err := producer.New(producer.Config{Brokers: s.redpanda.Brokers}, s.logger)
	s.Require().NoError(err)
	defer prod.Close(context.Background())

	sink, err := publisher.NewKafkaSink(prod, topic,
		publisher.WithKafkaLogger(s.logger),
		publisher.WithFlushInterval(10*time.Millisecond),
	)
	s.Require().NoError(err)

	remote := publisher.NewHub()
	sub := remote.Subscribe(nil)
	defer sub.Close()

	cons, err := consumer.New(consumer.Config{
		Brokers: s.redpanda.Brokers,
		GroupID: "relay-" + uuid.NewString(),
		Topics:  []string{topic},
	}, s.logger)
	s.Require().NoError(err)
	defer cons.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = sink.Run(runCtx) }()
	go func() { _ = cons.Run(runCtx, publisher.NewRelay(remote, s.logger)) }()

	sent := []models.Event{
		models.ItemUpdated(id.KindTask, "T1"),
		models.WorklistUpdated(id.KindTask, "corr-1"),
		models.SignalCreated(models.AssignedKey("alice", id.KindTask, "T1")),
	}
	for _, ev := range sent {
		sink.Publish(ctx, ev)
	}

	for _, want := range sent {
		select {
		case got := <-sub.Events():
			s.Equal(want.Key(), got.Key())
			s.Equal(want.Channel, got.Channel)
			s.Equal(want.RecipientID, got.RecipientID)
		case <-ctx.Done():
			s.FailNow("timed out waiting for relayed event")
		}
	}
}
