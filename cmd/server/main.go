package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dochandler "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/handler"
	docregistry "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/registry"
	docservice "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/service"
	jwttoken "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/jwt_token"
	lockmetrics "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/metrics"
	lockports "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	lockservice "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/service"
	lockstore "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/store"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/cleanup"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/emitter"
	nothandler "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/handler"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/intake"
	notmetrics "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	notports "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/publisher"
	signalstore "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/store"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/config"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/httpserver"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/consumer"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/producer"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/logger"
	platformmetrics "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/postgres"
	redisclient "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/redis"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/poller"
	pollermetrics "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/poller/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/dispatch"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/gateway"
	wihandler "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/handler"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/index"
	wimetrics "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/metrics"
	wiports "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	wiservice "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/service"
	authmw "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/middleware/auth"
)

// main wires the backends selected by configuration, serves the HTTP API and
// runs the background workers until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// infra holds the backend clients opened at startup.
type infra struct {
	db       *postgres.DB
	redis    *redisclient.Client
	producer *producer.Producer
}

func (i *infra) close(ctx context.Context) {
	if i.producer != nil {
		i.producer.Close(ctx)
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.close(context.Background())

	g, gctx := errgroup.WithContext(ctx)

	// Live updates: with Kafka every instance publishes to the topic and
	// relays it back into its own hub; without it the hub is the sink.
	notifMetrics := notmetrics.New()
	hub := publisher.NewHub(publisher.WithHubLogger(log), publisher.WithHubMetrics(notifMetrics))
	var sink notports.Sink = hub
	if backends.producer != nil {
		kafkaSink, err := publisher.NewKafkaSink(backends.producer, cfg.Kafka.LiveUpdateTopic,
			publisher.WithKafkaLogger(log),
			publisher.WithKafkaMetrics(notifMetrics),
		)
		if err != nil {
			return err
		}
		sink = kafkaSink
		g.Go(func() error { return kafkaSink.Run(gctx) })

		relay, err := consumer.New(consumer.Config{
			Brokers:    cfg.Kafka.Brokers,
			GroupID:    "zac-live-" + uuid.NewString(),
			Topics:     []string{cfg.Kafka.LiveUpdateTopic},
			StartAtEnd: true,
		}, log)
		if err != nil {
			return err
		}
		defer relay.Close()
		g.Go(func() error { return relay.Run(gctx, publisher.NewRelay(hub, log)) })
	}

	var signals notports.SignalStore = signalstore.NewInMemory()
	if backends.db != nil {
		signals = signalstore.NewPostgres(backends.db.SQL)
	}
	emit, err := emitter.New(signals,
		emitter.WithSink(sink),
		emitter.WithLogger(log),
		emitter.WithMetrics(notifMetrics),
	)
	if err != nil {
		return err
	}

	// Work items.
	items := gateway.NewInMemory()
	var (
		searchIndex wiports.Index
		searcher    wiports.Searcher
	)
	if backends.db != nil {
		pg := index.NewPostgres(backends.db.Pool, index.WithLogger(log))
		searchIndex, searcher = pg, pg
	} else {
		mem := index.NewInMemory()
		searchIndex, searcher = mem, mem
	}
	dispatcher, err := dispatch.New(items, searchIndex, emit, emit,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(wimetrics.New()),
	)
	if err != nil {
		return err
	}
	workItems, err := wiservice.New(dispatcher, items, searchIndex, emit,
		wiservice.WithLogger(log),
		wiservice.WithSearcher(searcher),
		wiservice.WithMaxConcurrentBatches(cfg.Dispatch.MaxConcurrentBatches),
	)
	if err != nil {
		return err
	}

	// Documents.
	registry := docregistry.NewInMemory()
	var locks lockports.Store = lockstore.NewInMemory()
	switch {
	case backends.redis != nil:
		locks = lockstore.NewRedis(backends.redis.Client, lockstore.WithTemporaryTTL(cfg.Lock.TemporaryTTL))
	case backends.db != nil:
		locks = lockstore.NewPostgres(backends.db.SQL)
	}
	lockManager, err := lockservice.New(locks, registry,
		lockservice.WithLogger(log),
		lockservice.WithMetrics(lockmetrics.New()),
	)
	if err != nil {
		return err
	}
	waiter, err := poller.New(emit,
		poller.WithLogger(log),
		poller.WithMetrics(pollermetrics.New()),
		poller.WithLifetime(gctx),
	)
	if err != nil {
		return err
	}
	documents, err := docservice.New(registry, lockManager, waiter,
		docservice.WithLogger(log),
		docservice.WithPolling(cfg.Poller.Attempts, cfg.Poller.Delay),
	)
	if err != nil {
		return err
	}

	// Registry notifications.
	if cfg.Kafka.Enabled() {
		router := intake.NewRouter(log, notifMetrics)
		intake.RegisterDefaults(router, items, emit, searchIndex, log)
		intakeConsumer, err := consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.IntakeGroup,
			Topics:  []string{cfg.Kafka.NotificationTopic},
		}, log)
		if err != nil {
			return err
		}
		defer intakeConsumer.Close()
		g.Go(func() error { return intakeConsumer.Run(gctx, router) })
	}

	purger, err := cleanup.NewWorker(signals,
		cleanup.WithRetention(cfg.Signals.Retention),
		cleanup.WithInterval(cfg.Signals.CleanupInterval),
		cleanup.WithLogger(log),
		cleanup.WithMetrics(notifMetrics),
	)
	if err != nil {
		return err
	}
	g.Go(func() error { return purger.Run(gctx) })

	// HTTP.
	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	live := nothandler.NewLiveHandler(hub, log,
		nothandler.WithLiveMetrics(notifMetrics),
		nothandler.WithOriginPatterns(cfg.Server.AllowedOrigins...),
	)

	router := httpserver.NewRouter(log, platformmetrics.New())
	router.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log))
		wihandler.New(workItems, log).Register(r)
		dochandler.New(documents, lockManager, log).Register(r)
		nothandler.NewSignalsHandler(emit, live, log).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	g.Go(func() error {
		log.InfoContext(gctx, "starting zaakafhandelcomponent", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown failed", "error", err)
		}
		if err := workItems.Close(shutdownCtx); err != nil {
			log.Error("running batches did not finish", "error", err)
		}
		return nil
	})

	return g.Wait()
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	backends := &infra{}

	if cfg.Postgres.URL != "" {
		db, err := postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		backends.db = db
		if err := postgres.Migrate(ctx, db.SQL, log); err != nil {
			backends.close(ctx)
			return nil, err
		}
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		backends.close(ctx)
		return nil, err
	}
	backends.redis = rc

	if cfg.Kafka.Enabled() {
		if err := kafka.EnsureTopics(ctx, cfg.Kafka.Brokers,
			kafka.TopicSpec{Name: cfg.Kafka.LiveUpdateTopic, Partitions: cfg.Kafka.Partitions, ReplicationFactor: cfg.Kafka.ReplicationFactor},
			kafka.TopicSpec{Name: cfg.Kafka.NotificationTopic, Partitions: cfg.Kafka.Partitions, ReplicationFactor: cfg.Kafka.ReplicationFactor},
		); err != nil {
			backends.close(ctx)
			return nil, err
		}
		p, err := producer.New(producer.Config{Brokers: cfg.Kafka.Brokers, ClientID: cfg.Kafka.ClientID}, log)
		if err != nil {
			backends.close(ctx)
			return nil, err
		}
		backends.producer = p
	}

	log.InfoContext(ctx, "backends selected",
		"postgres", backends.db != nil,
		"redis", backends.redis != nil,
		"kafka", backends.producer != nil,
	)
	return backends, nil
}
