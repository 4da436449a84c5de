// Package memory keeps pipeline applications in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"finai/internal/pipeline"
	"finai/pkg/platform/sentinel"
)

// InMemoryApplicationStore indexes applications by ID and by PAN.
type InMemoryApplicationStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]pipeline.Application
	byPAN map[string]uuid.UUID
}

func NewInMemoryApplicationStore() *InMemoryApplicationStore {
	return &InMemoryApplicationStore{
		byID:  make(map[uuid.UUID]pipeline.Application),
		byPAN: make(map[string]uuid.UUID),
	}
}

// Create stores app. A second application with the same PAN is a conflict.
func (s *InMemoryApplicationStore) Create(_ context.Context, app *pipeline.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byPAN[app.PAN]; ok {
		return fmt.Errorf("application with pan %s: %w", app.PAN, sentinel.ErrConflict)
	}
	if _, ok := s.byID[app.ID]; ok {
		return fmt.Errorf("application %s: %w", app.ID, sentinel.ErrConflict)
	}
	s.byID[app.ID] = *app
	s.byPAN[app.PAN] = app.ID
	return nil
}

// List returns applications oldest first.
func (s *InMemoryApplicationStore) List(_ context.Context) ([]pipeline.Application, error) {
	s.mu.RLock()
	out := make([]pipeline.Application, 0, len(s.byID))
	for _, app := range s.byID {
		out = append(out, app)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryApplicationStore) FindByID(_ context.Context, id uuid.UUID) (*pipeline.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &app, nil
}
