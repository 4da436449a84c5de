package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"finai/internal/platform/kafka"
)

// Config configures a Producer.
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
	// Partitions is used only when the topic does not exist yet.
	Partitions int32
}

// Producer writes records to one default topic and waits for broker acks.
type Producer struct {
	client *kgo.Client
	topic  string
}

// New connects to the brokers and makes sure the topic exists.
func New(ctx context.Context, cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka producer: no brokers configured")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "finai"
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RecordDeliveryTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka producer ping: %w", err)
	}
	if err := kafka.EnsureTopics(ctx, client, kafka.TopicSpec{Name: cfg.Topic, Partitions: cfg.Partitions}); err != nil {
		client.Close()
		return nil, err
	}

	return &Producer{client: client, topic: cfg.Topic}, nil
}

// Produce synchronously writes one record to the default topic.
func (p *Producer) Produce(ctx context.Context, key, value []byte, headers map[string]string) error {
	record := &kgo.Record{Key: key, Value: value}
	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Producer) Topic() string {
	return p.topic
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close() {
	p.client.Close()
}
