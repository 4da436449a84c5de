package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"finai/internal/platform/kafka/consumer"
	audit "finai/pkg/platform/audit"
	"finai/pkg/platform/audit/stream"
)

// StoreHandler materializes streamed audit events into a store. The store
// must treat duplicate event IDs as no-ops, since delivery is at-least-once.
type StoreHandler struct {
	store  audit.Store
	logger *slog.Logger
}

func NewStoreHandler(store audit.Store, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{store: store, logger: logger}
}

// Handle stores one event. Malformed messages are logged and skipped so they
// do not block the partition.
func (h *StoreHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	event, err := stream.Decode(msg.Value)
	if err != nil {
		h.logger.ErrorContext(ctx, "dropping malformed audit message",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}

	if err := h.store.Append(ctx, event); err != nil {
		return fmt.Errorf("store audit event %s: %w", event.ID, err)
	}

	h.logger.DebugContext(ctx, "stored audit event",
		"event_id", event.ID,
		"action", event.Action,
	)
	return nil
}
