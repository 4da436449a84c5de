package worker

import (
	"context"

	audit "finai/pkg/platform/audit"
)

// HandleFunc processes one event. It owns its own error reporting; the worker
// keeps draining regardless of the outcome.
type HandleFunc func(ctx context.Context, event audit.Event)

// Worker consumes audit events from a channel until the channel is closed.
type Worker struct {
	handle HandleFunc
	inbox  <-chan audit.Event
}

func NewWorker(handle HandleFunc, inbox <-chan audit.Event) *Worker {
	return &Worker{handle: handle, inbox: inbox}
}

// Run blocks until inbox is closed and fully drained, or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		}
	}
}
