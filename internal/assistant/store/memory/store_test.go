package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/internal/assistant"
)

func TestInMemoryChatStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryChatStore()

	require.NoError(t, store.Append(ctx, "b", assistant.Message{Role: assistant.RoleUser, Content: "first in b"}))
	require.NoError(t, store.Append(ctx, "a", assistant.Message{Role: assistant.RoleUser, Content: "first in a"}))
	require.NoError(t, store.Append(ctx, "b", assistant.Message{Role: assistant.RoleAssistant, Content: "reply"}))

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []assistant.Session{
		{ChatID: "b", FirstMessage: "first in b"},
		{ChatID: "a", FirstMessage: "first in a"},
	}, sessions)

	history, err := store.History(ctx, "b")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, assistant.RoleAssistant, history[1].Role)

	history[0].Content = "mutated"
	again, err := store.History(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "first in b", again[0].Content)

	unknown, err := store.History(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestInMemoryChatStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryChatStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(ctx, "shared", assistant.Message{Role: assistant.RoleUser, Content: fmt.Sprint(i)})
		}()
	}
	wg.Wait()

	history, err := store.History(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, history, 50)
}
