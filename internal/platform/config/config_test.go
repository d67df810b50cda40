package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "POLLER_ATTEMPTS", "SIGNAL_RETENTION"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 10, cfg.Poller.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Poller.Delay)
	assert.Equal(t, 30*24*time.Hour, cfg.Signals.Retention)
	assert.Equal(t, 4, cfg.Dispatch.MaxConcurrentBatches)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("POLLER_ATTEMPTS", "3")
	t.Setenv("POLLER_DELAY", "250ms")
	t.Setenv("LOCK_TEMPORARY_TTL", "1m")
	t.Setenv("DISPATCH_MAX_CONCURRENT_BATCHES", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 3, cfg.Poller.Attempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Poller.Delay)
	assert.Equal(t, time.Minute, cfg.Lock.TemporaryTTL)
	assert.Equal(t, 4, cfg.Dispatch.MaxConcurrentBatches, "invalid values fall back to the default")
}
