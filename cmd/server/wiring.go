package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finai/internal/assistant"
	chatservice "finai/internal/assistant/service"
	chatmemory "finai/internal/assistant/store/memory"
	chatredis "finai/internal/assistant/store/redis"
	jwttoken "finai/internal/jwt_token"
	pipelineservice "finai/internal/pipeline/service"
	appmemory "finai/internal/pipeline/store/memory"
	apppostgres "finai/internal/pipeline/store/postgres"
	"finai/internal/platform/config"
	"finai/internal/platform/kafka/producer"
	"finai/internal/platform/postgres"
	redisclient "finai/internal/platform/redis"
	ratelimitmetrics "finai/internal/ratelimit/metrics"
	ratelimit "finai/internal/ratelimit/middleware"
	"finai/internal/ratelimit/store/bucket"
	"finai/internal/risk"
	riskmetrics "finai/internal/risk/metrics"
	riskservice "finai/internal/risk/service"
	"finai/pkg/platform/audit"
	"finai/pkg/platform/audit/publisher"
	auditmemory "finai/pkg/platform/audit/store/memory"
	auditpostgres "finai/pkg/platform/audit/store/postgres"
	"finai/pkg/platform/audit/stream"
	"finai/pkg/platform/circuit"
)

// infra holds the optional external connections. Nil fields are unconfigured.
type infra struct {
	redis    *redisclient.Client
	db       *postgres.Handles
	producer *producer.Producer
	log      *slog.Logger
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{log: log}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rc, err := redisclient.New(connectCtx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	in.redis = rc

	db, err := postgres.Open(connectCtx, cfg.Database)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.db = db

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := producer.New(connectCtx, producer.Config{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.DecisionTopic,
			ClientID: "finai-server",
		})
		if err != nil {
			in.Close()
			return nil, err
		}
		in.producer = p
	}

	log.Info("infrastructure ready",
		"redis", in.redis != nil,
		"postgres", in.db != nil,
		"kafka", in.producer != nil,
	)
	return in, nil
}

func (in *infra) Close() {
	if in.producer != nil {
		in.producer.Close()
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			in.log.Warn("closing postgres", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			in.log.Warn("closing redis", "error", err)
		}
	}
}

// Health reports the first failing dependency.
func (in *infra) Health(ctx context.Context) error {
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if in.db != nil {
		if err := in.db.Health(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

// app bundles the services the router exposes.
type app struct {
	publisher *publisher.Publisher
	risk      *riskservice.Service
	pipeline  *pipelineservice.Service
	assistant *chatservice.Service
	limiter   *ratelimit.Middleware
	tokens    *jwttoken.JWTService
}

func buildApp(ctx context.Context, cfg config.Config, in *infra, log *slog.Logger) (*app, error) {
	auditStore, err := buildAuditStore(ctx, in)
	if err != nil {
		return nil, err
	}

	sampler := publisher.NewSampler(1)
	sampler.SetRate(string(audit.EventChatMessage), cfg.Audit.ChatSampleRate)
	pubOpts := []publisher.Option{
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithSampler(sampler),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	}
	if in.producer != nil {
		pubOpts = append(pubOpts, publisher.WithSink(stream.NewSink(in.producer), circuit.New("audit-kafka")))
	}
	pub := publisher.NewPublisher(auditStore, pubOpts...)

	engine := risk.NewEngine()

	applications, err := buildApplicationStore(ctx, cfg, in, log)
	if err != nil {
		pub.Close()
		return nil, err
	}

	var chats chatservice.ChatStore = chatmemory.NewInMemoryChatStore()
	var buckets ratelimit.BucketStore = bucket.NewInMemoryBucketStore()
	if in.redis != nil {
		chats = chatredis.New(in.redis.Client)
		buckets = bucket.NewRedis(in.redis.Client)
	}

	return &app{
		publisher: pub,
		risk: riskservice.New(engine,
			riskservice.WithAuditPublisher(pub),
			riskservice.WithMetrics(riskmetrics.New()),
			riskservice.WithLogger(log),
		),
		pipeline: pipelineservice.New(applications, engine,
			pipelineservice.WithAuditPublisher(pub),
			pipelineservice.WithLogger(log),
		),
		assistant: chatservice.New(chats, assistant.NewResponder(engine),
			chatservice.WithAuditPublisher(pub),
			chatservice.WithLogger(log),
		),
		limiter: ratelimit.New(buckets, cfg.RateLimit.PerMinute, log,
			ratelimit.WithDisabled(cfg.RateLimit.PerMinute == 0),
			ratelimit.WithMetrics(ratelimitmetrics.New()),
		),
		tokens: jwttoken.NewJWTService(cfg.Admin.JWTSigningKey, cfg.Admin.Issuer, cfg.Admin.Audience),
	}, nil
}

func buildAuditStore(ctx context.Context, in *infra) (audit.Store, error) {
	if in.db == nil {
		return auditmemory.NewInMemoryStore(), nil
	}
	store := auditpostgres.New(in.db.DB)
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate audit store: %w", err)
	}
	return store, nil
}

func buildApplicationStore(ctx context.Context, cfg config.Config, in *infra, log *slog.Logger) (pipelineservice.Store, error) {
	var store pipelineservice.Store
	if in.db == nil {
		store = appmemory.NewInMemoryApplicationStore()
	} else {
		pg := apppostgres.New(in.db.Pool)
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate application store: %w", err)
		}
		store = pg
	}

	if cfg.SeedDemoData {
		n, err := pipelineservice.SeedDemo(ctx, store, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("seed demo applications: %w", err)
		}
		log.Info("seeded demo applications", "created", n)
	}
	return store, nil
}
