package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "finai/pkg/platform/audit"
)

func TestInMemoryStore_ListRecentNewestFirst(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, audit.Event{Subject: subject, Action: string(audit.EventDecisionMade)}))
	}

	events, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].Subject)
	assert.Equal(t, "b", events[1].Subject)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, audit.Event{Subject: "a", Payload: map[string]any{"risk_score": 59.5}}))

	events, err := store.ListAll(ctx)
	require.NoError(t, err)
	events[0].Payload["risk_score"] = 0.0

	again, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 59.5, again[0].Payload["risk_score"])
}

func TestInMemoryStore_Clear(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, audit.Event{Subject: "a"}))

	store.Clear()

	events, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
