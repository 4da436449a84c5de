package consumer

import (
	"context"
	"log/slog"

	"finai/internal/platform/kafka/consumer"
)

// TopicHandler processes messages from one topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// Router lets one consumer group serve several topics. Messages on a topic
// with no handler go to the fallback, or are acknowledged and dropped when
// there is none.
type Router struct {
	byTopic  map[string]TopicHandler
	fallback TopicHandler
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger, fallback TopicHandler) *Router {
	return &Router{
		byTopic:  map[string]TopicHandler{},
		fallback: fallback,
		logger:   logger,
	}
}

// Register binds handler to topic, replacing any earlier binding.
func (r *Router) Register(topic string, handler TopicHandler) {
	r.byTopic[topic] = handler
}

func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if h, ok := r.byTopic[msg.Topic]; ok {
		return h.Handle(ctx, msg)
	}
	if r.fallback != nil {
		return r.fallback.Handle(ctx, msg)
	}
	r.logger.WarnContext(ctx, "dropping audit message from unrouted topic",
		"topic", msg.Topic,
		"offset", msg.Offset,
	)
	return nil
}
