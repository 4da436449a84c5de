package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "finai/pkg/platform/audit"
)

func TestWorker_DrainsUntilClosed(t *testing.T) {
	inbox := make(chan audit.Event, 3)
	var seen []string
	w := NewWorker(func(_ context.Context, e audit.Event) { seen = append(seen, e.Subject) }, inbox)

	inbox <- audit.Event{Subject: "a"}
	inbox <- audit.Event{Subject: "b"}
	close(inbox)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestWorker_StopsOnCancel(t *testing.T) {
	inbox := make(chan audit.Event)
	w := NewWorker(func(context.Context, audit.Event) {}, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}
