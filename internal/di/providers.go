package di

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ArenaFighter/internal/domain/models"
	drepo "ArenaFighter/internal/domain/repository"
	api "ArenaFighter/internal/handler/api"
	mid "ArenaFighter/internal/middleware"
	internalrepo "ArenaFighter/internal/repository"
	"ArenaFighter/internal/service/arena"
	icache "ArenaFighter/internal/service/cache"
	"ArenaFighter/internal/services/bankroll"
	"ArenaFighter/internal/services/psychology"
	"ArenaFighter/internal/services/strategy"
	"ArenaFighter/internal/usecase"
	pkgch "ArenaFighter/pkg/clickhouse"
	"ArenaFighter/pkg/config"
	xhttp "ArenaFighter/pkg/http"
	pkgkafka "ArenaFighter/pkg/kafka"
	applogger "ArenaFighter/pkg/logger"
	"ArenaFighter/pkg/metrics"
	"ArenaFighter/pkg/queue"
	"ArenaFighter/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	return applogger.New(lc)
}

// ProvideRand creates the shared randomness source for strategy and
// psychology. Decisions must not be reproducible across runs.
func ProvideRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ProvideStrategyEngine creates the move prediction engine.
func ProvideStrategyEngine(rng *rand.Rand) *strategy.Engine {
	return strategy.New(rng)
}

// ProvideBankrollManager creates the wager sizing manager.
func ProvideBankrollManager() *bankroll.Manager {
	return bankroll.NewManager()
}

// ProvidePsychologyModule creates the tactical psychology layer.
func ProvidePsychologyModule(cfg *config.Config, rng *rand.Rand) *psychology.Module {
	pc := psychology.Config{
		FastDelay:           cfg.Psychology.FastDelay,
		SlowDelayMin:        cfg.Psychology.SlowDelayMin,
		SlowDelayMax:        cfg.Psychology.SlowDelayMax,
		ErraticDelayMin:     cfg.Psychology.ErraticDelayMin,
		ErraticDelayMax:     cfg.Psychology.ErraticDelayMax,
		EscalatingBase:      cfg.Psychology.EscalatingBase,
		EscalatingIncrement: cfg.Psychology.EscalatingIncrement,
		SeedFraction:        cfg.Psychology.SeedFraction,
		SeedMove:            models.ParseMove(cfg.Psychology.SeedMove),
		TiltMultiplier:      cfg.Psychology.TiltMultiplier,
		TiltMaxBankrollBps:  cfg.Psychology.TiltMaxBankrollBps,
		TiltMinStakeWei:     cfg.Psychology.TiltMinStakeWei,
		MinEloGap:           cfg.Psychology.MinEloGap,
	}
	return psychology.New(pc, rng)
}

// ProvideProfileStore creates the on-disk opponent profile store.
func ProvideProfileStore(cfg *config.Config, log *applogger.Logger) drepo.ProfileStore {
	return internalrepo.NewFileProfileStore(cfg.Profiles.Dir, log)
}

// ProvideClickHouseClient creates a ClickHouse client. Returns nil when
// no host is configured; the kafka backend runs without one.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		if cfg.Backend.Type == "clickhouse" {
			return nil, fmt.Errorf("clickhouse.host is required for the clickhouse backend")
		}
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	table := db + "." + cfg.ClickHouse.Table
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + table + " (ts DateTime, opponent String, game String, won UInt8, my_score Int64, opp_score Int64, wager_wei UInt64, strategy String) ENGINE=MergeTree ORDER BY (opponent, ts)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer. Returns nil when the
// backend is clickhouse-only.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka.brokers are required for the kafka backend")
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideMatchPublisher creates the Kafka match event publisher.
func ProvideMatchPublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaMatchPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMatchArchive creates the ClickHouse match archive.
func ProvideMatchArchive(chClient *pkgch.Client, cfg *config.Config) drepo.Archive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseMatchArchive(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
}

// ProvideArenaStream creates the arena gateway WebSocket stream.
func ProvideArenaStream(cfg *config.Config, log *applogger.Logger) drepo.ArenaStream {
	return arena.New(
		cfg.Arena.GatewayURL,
		cfg.Arena.Wallet,
		cfg.Arena.ReconnectDelay,
		cfg.Arena.PingInterval,
		log,
	)
}

// ProvideBackendEmitter routes match events to the configured backend.
func ProvideBackendEmitter(pub drepo.Publisher, arch drepo.Archive, cfg *config.Config) *usecase.BackendEmitter {
	return usecase.NewBackendEmitter(pub, arch, cfg.Backend.Type)
}

// ProvideEmitPipeline creates the outage-buffering pipeline in front of
// the backend and starts its background flusher.
func ProvideEmitPipeline(emitter *usecase.BackendEmitter, m drepo.Metrics) *mid.EmitPipeline {
	pipe := mid.NewEmitPipeline(emitter, m, mid.WithBufferSize(2000))
	pipe.Start(context.Background())
	return pipe
}

// ProvideResultRecorder creates the settlement recorder.
func ProvideResultRecorder(
	profiles drepo.ProfileStore,
	emitter *usecase.BackendEmitter,
	pipe *mid.EmitPipeline,
	m drepo.Metrics,
) *usecase.ResultRecorder {
	return usecase.NewResultRecorder(profiles, emitter, pipe, m)
}

// ProvideDirectDispatcher creates the rate-limited challenge path.
func ProvideDirectDispatcher(stream drepo.ArenaStream, m drepo.Metrics, log *applogger.Logger) *usecase.DirectDispatcher {
	return usecase.NewDirectDispatcher(stream, m, log)
}

// ProvideRedisQueue creates the Redis-backed challenge queue. Returns
// nil when Redis is disabled; challenges then go out directly.
func ProvideRedisQueue(cfg *config.Config, log *applogger.Logger, direct *usecase.DirectDispatcher) *queue.RedisQueue {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	q := queue.NewRedisQueue(log,
		&queue.QueueConfig{
			Workers:    2,
			QueueSize:  100,
			RetryLimit: 3,
			RetryDelay: 2 * time.Second,
		},
		client,
		queue.ModeProducerConsumer,
		queue.WithKeyPrefix("arenafighter:queue"),
	)
	q.RegisterJob(usecase.NewChallengeJob(direct))
	return q
}

// ProvideChallengeDispatcher prefers the queue-backed dispatcher when a
// queue exists.
func ProvideChallengeDispatcher(q *queue.RedisQueue, direct *usecase.DirectDispatcher) usecase.ChallengeDispatcher {
	if q != nil {
		return usecase.NewQueueDispatcher(q)
	}
	return direct
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
// The consumer only runs on the kafka backend, draining match events
// into the archive.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" || len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMatchEventsHandler registers the archive handler for the match
// events topic. Nil when there is no archive to write to.
func ProvideMatchEventsHandler(archive drepo.Archive, m drepo.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	if archive == nil {
		return nil
	}
	return usecase.NewMatchEventsHandler(cfg.Kafka.Topic, archive, m)
}

// ProvideFighter creates the event-loop use case.
func ProvideFighter(
	stream drepo.ArenaStream,
	strat *strategy.Engine,
	bank *bankroll.Manager,
	psy *psychology.Module,
	rec *usecase.ResultRecorder,
	disp usecase.ChallengeDispatcher,
	m drepo.Metrics,
	log *applogger.Logger,
) *usecase.Fighter {
	return usecase.NewFighter(stream, strat, bank, psy, rec, disp, m, log)
}

// ProvideHTTPHandler creates the read-only model API handler.
func ProvideHTTPHandler(
	log *applogger.Logger,
	fighter *usecase.Fighter,
	bank *bankroll.Manager,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewOpponentsHandler(log, fighter, bank)

	var c icache.BytesCache
	if cfg.Cache.Redis.Enabled {
		c = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	} else {
		c = icache.NewTTLCache()
	}
	h.SetCache(c, cfg.Cache.TargetsTTL)

	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	fighter *usecase.Fighter,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	q *queue.RedisQueue,
	handler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, log, fighter, consumer, kh, chClient, q, handler)
}
