// Command audit-consumer reads streamed audit events from Kafka and
// materializes them into the PostgreSQL audit store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finai/internal/platform/config"
	"finai/internal/platform/kafka/consumer"
	"finai/internal/platform/logger"
	"finai/internal/platform/postgres"
	auditconsumer "finai/pkg/platform/audit/consumer"
	auditpostgres "finai/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("audit-consumer stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := postgres.Open(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()

	store := auditpostgres.New(db.DB)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate audit store: %w", err)
	}

	router := auditconsumer.NewRouter(log, nil)
	router.Register(cfg.Kafka.DecisionTopic, auditconsumer.NewStoreHandler(store, log))

	c, err := consumer.New(consumer.Config{
		Brokers:    cfg.Kafka.Brokers,
		Group:      cfg.Kafka.ConsumerGroup,
		Topics:     []string{cfg.Kafka.DecisionTopic},
		MaxRetries: 3,
		RetryDelay: time.Second,
	}, router, log)
	if err != nil {
		return err
	}
	defer c.Close()

	log.Info("audit-consumer started",
		"topic", cfg.Kafka.DecisionTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("audit-consumer stopped")
	return nil
}
