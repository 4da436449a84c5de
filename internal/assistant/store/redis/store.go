// Package redis keeps chat history in Redis: one list per session plus a
// sorted set indexing sessions by creation time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"finai/internal/assistant"
)

const (
	sessionIndexKey = "assistant:sessions"
	historyPrefix   = "assistant:chat:"
)

// ChatStore is a Redis-backed chat history store.
type ChatStore struct {
	client redis.Cmdable
}

func New(client redis.Cmdable) *ChatStore {
	return &ChatStore{client: client}
}

func historyKey(sessionID string) string {
	return historyPrefix + sessionID
}

// Append pushes msg onto the session list and indexes the session the first
// time it is seen. Both writes run in one MULTI/EXEC.
func (s *ChatStore) Append(ctx context.Context, sessionID string, msg assistant.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, sessionIndexKey, redis.Z{
			Score:  float64(msg.CreatedAt.UnixMicro()),
			Member: sessionID,
		})
		pipe.RPush(ctx, historyKey(sessionID), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

func (s *ChatStore) History(ctx context.Context, sessionID string) ([]assistant.Message, error) {
	raw, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	out := make([]assistant.Message, 0, len(raw))
	for _, item := range raw {
		var msg assistant.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// Sessions lists sessions oldest first. First messages are fetched in one
// pipeline.
func (s *ChatStore) Sessions(ctx context.Context) ([]assistant.Session, error) {
	ids, err := s.client.ZRange(ctx, sessionIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	if len(ids) == 0 {
		return []assistant.Session{}, nil
	}

	cmds := make([]*redis.StringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.LIndex(ctx, historyKey(id), 0)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read first chat messages: %w", err)
	}

	out := make([]assistant.Session, 0, len(ids))
	for i, id := range ids {
		session := assistant.Session{ChatID: id}
		raw, err := cmds[i].Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return nil, fmt.Errorf("read first chat message: %w", err)
		default:
			var msg assistant.Message
			if err := json.Unmarshal([]byte(raw), &msg); err != nil {
				return nil, fmt.Errorf("decode chat message: %w", err)
			}
			session.FirstMessage = msg.Content
		}
		out = append(out, session)
	}
	return out, nil
}
