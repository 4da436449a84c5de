package consumer

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/internal/platform/kafka/consumer"
	audit "finai/pkg/platform/audit"
	"finai/pkg/platform/audit/store/memory"
	"finai/pkg/platform/audit/stream"
)

var discard = slog.New(slog.DiscardHandler)

func TestStoreHandler_StoresDecodedEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewStoreHandler(store, discard)

	event := audit.Event{ID: uuid.New(), Timestamp: time.Now().UTC(), Action: string(audit.EventDecisionMade), Decision: "Reject"}
	value, err := stream.Encode(event)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), &consumer.Message{Topic: "finai.decisions", Value: value}))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, "Reject", events[0].Decision)
}

func TestStoreHandler_SkipsMalformedMessage(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewStoreHandler(store, discard)

	err := h.Handle(context.Background(), &consumer.Message{Value: []byte("garbage")})
	require.NoError(t, err)

	events, _ := store.ListAll(context.Background())
	assert.Empty(t, events)
}

func TestStoreHandler_ReturnsStoreErrorForRetry(t *testing.T) {
	h := NewStoreHandler(brokenStore{}, discard)
	value, err := stream.Encode(audit.Event{ID: uuid.New(), Timestamp: time.Now(), Action: "decision_made"})
	require.NoError(t, err)

	assert.Error(t, h.Handle(context.Background(), &consumer.Message{Value: value}))
}

func TestRouter_DispatchesByTopic(t *testing.T) {
	decisions := &countingHandler{}
	fallback := &countingHandler{}
	r := NewRouter(discard, fallback)
	r.Register("finai.decisions", decisions)

	require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "finai.decisions"}))
	require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "other"}))

	assert.Equal(t, 1, decisions.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestRouter_UnknownTopicWithoutFallbackIsSkipped(t *testing.T) {
	r := NewRouter(discard, nil)
	assert.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "other"}))
}

type countingHandler struct{ calls int }

func (h *countingHandler) Handle(context.Context, *consumer.Message) error {
	h.calls++
	return nil
}

type brokenStore struct{}

func (brokenStore) Append(context.Context, audit.Event) error { return errors.New("db down") }

func (brokenStore) ListRecent(context.Context, int) ([]audit.Event, error) { return nil, nil }
