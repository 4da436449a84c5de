// Package memory keeps chat history in process memory.
package memory

import (
	"context"
	"sync"

	"finai/internal/assistant"
)

// InMemoryChatStore keeps sessions in creation order.
type InMemoryChatStore struct {
	mu       sync.RWMutex
	order    []string
	messages map[string][]assistant.Message
}

func NewInMemoryChatStore() *InMemoryChatStore {
	return &InMemoryChatStore{
		messages: make(map[string][]assistant.Message),
	}
}

func (s *InMemoryChatStore) Append(_ context.Context, sessionID string, msg assistant.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[sessionID]; !ok {
		s.order = append(s.order, sessionID)
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return nil
}

// History returns a copy of the session's messages; unknown sessions yield nil.
func (s *InMemoryChatStore) History(_ context.Context, sessionID string) ([]assistant.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[sessionID]
	if len(msgs) == 0 {
		return nil, nil
	}
	out := make([]assistant.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *InMemoryChatStore) Sessions(_ context.Context) ([]assistant.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]assistant.Session, 0, len(s.order))
	for _, id := range s.order {
		session := assistant.Session{ChatID: id}
		if msgs := s.messages[id]; len(msgs) > 0 {
			session.FirstMessage = msgs[0].Content
		}
		out = append(out, session)
	}
	return out, nil
}
