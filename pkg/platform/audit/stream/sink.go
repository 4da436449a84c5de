package stream

import (
	"context"

	audit "finai/pkg/platform/audit"
)

// Producer is the broker capability the sink needs.
type Producer interface {
	Produce(ctx context.Context, key, value []byte, headers map[string]string) error
}

// Sink publishes audit events to a broker topic.
type Sink struct {
	producer Producer
}

func NewSink(producer Producer) *Sink {
	return &Sink{producer: producer}
}

// Publish implements publisher.Sink.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	return s.producer.Produce(ctx, []byte(event.ID.String()), data, map[string]string{
		"action":   event.Action,
		"category": string(event.Category),
	})
}
