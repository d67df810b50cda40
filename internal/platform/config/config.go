package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete service configuration. An empty URL for Postgres,
// Redis or Kafka selects the in-memory implementation of that backend.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Dispatch DispatchConfig
	Poller   PollerConfig
	Signals  SignalsConfig
	Lock     LockConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	LogFormat     string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// Origin patterns accepted for websocket upgrades from browsers.
	AllowedOrigins []string
}

type PostgresConfig struct {
	URL string
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers           []string
	ClientID          string
	LiveUpdateTopic   string
	NotificationTopic string
	IntakeGroup       string
	Partitions        int32
	ReplicationFactor int16
}

// Enabled reports whether a broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type DispatchConfig struct {
	MaxConcurrentBatches int
}

type PollerConfig struct {
	Attempts int
	Delay    time.Duration
}

type SignalsConfig struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

type LockConfig struct {
	TemporaryTTL time.Duration
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Server: Server{
			Addr:           envString("ZAC_ADDR", ":8080"),
			LogLevel:       envString("LOG_LEVEL", "info"),
			LogFormat:      envString("LOG_FORMAT", "json"),
			JWTSigningKey:  jwtSigningKey,
			JWTIssuer:      envString("JWT_ISSUER", "zac"),
			JWTAudience:    envString("JWT_AUDIENCE", "zac"),
			AllowedOrigins: envList("ZAC_ALLOWED_ORIGINS"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			ClientID:          envString("KAFKA_CLIENT_ID", "zac"),
			LiveUpdateTopic:   envString("KAFKA_LIVE_UPDATE_TOPIC", "zac.live-updates"),
			NotificationTopic: envString("KAFKA_NOTIFICATION_TOPIC", "registry.notifications"),
			IntakeGroup:       envString("KAFKA_INTAKE_GROUP", "zac-intake"),
			Partitions:        int32(envInt("KAFKA_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("KAFKA_REPLICATION_FACTOR", 1)),
		},
		Dispatch: DispatchConfig{
			MaxConcurrentBatches: envInt("DISPATCH_MAX_CONCURRENT_BATCHES", 4),
		},
		Poller: PollerConfig{
			Attempts: envInt("POLLER_ATTEMPTS", 10),
			Delay:    envDuration("POLLER_DELAY", 500*time.Millisecond),
		},
		Signals: SignalsConfig{
			Retention:       envDuration("SIGNAL_RETENTION", 30*24*time.Hour),
			CleanupInterval: envDuration("SIGNAL_CLEANUP_INTERVAL", time.Hour),
		},
		Lock: LockConfig{
			TemporaryTTL: envDuration("LOCK_TEMPORARY_TTL", 5*time.Minute),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// envList reads a comma separated list, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
