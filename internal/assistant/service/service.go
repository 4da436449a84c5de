// Package service runs the offline assistant: it keeps chat sessions in a
// ChatStore and answers each user message with a Replier.
package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"finai/internal/assistant"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/audit"
	"finai/pkg/requestcontext"
)

// ChatStore persists chat sessions.
type ChatStore interface {
	Append(ctx context.Context, sessionID string, msg assistant.Message) error
	// History returns the session's messages oldest first; unknown sessions
	// yield an empty slice.
	History(ctx context.Context, sessionID string) ([]assistant.Message, error)
	Sessions(ctx context.Context) ([]assistant.Session, error)
}

// Replier answers a user message.
type Replier interface {
	Reply(msg string) (string, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ChatReply is the result of one chat turn.
type ChatReply struct {
	ChatID string
	Reply  string
}

type Service struct {
	store   ChatStore
	replier Replier
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store ChatStore, replier Replier, opts ...Option) *Service {
	s := &Service{
		store:   store,
		replier: replier,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat records message in the session, creating one when chatID is empty,
// and stores the reply after it.
func (s *Service) Chat(ctx context.Context, chatID, message string) (ChatReply, error) {
	if chatID == "" {
		chatID = uuid.NewString()
	}
	now := requestcontext.Now(ctx)

	if err := s.store.Append(ctx, chatID, assistant.Message{
		Role:      assistant.RoleUser,
		Content:   message,
		CreatedAt: now,
	}); err != nil {
		return ChatReply{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store chat message")
	}

	reply, err := s.replier.Reply(message)
	if err != nil {
		return ChatReply{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate reply")
	}

	if err := s.store.Append(ctx, chatID, assistant.Message{
		Role:      assistant.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	}); err != nil {
		return ChatReply{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store chat reply")
	}

	s.emit(ctx, audit.EventChatMessage, chatID, map[string]any{
		"intent": string(assistant.DetectIntent(message)),
	})
	return ChatReply{ChatID: chatID, Reply: reply}, nil
}

// Sessions lists every chat session in creation order.
func (s *Service) Sessions(ctx context.Context) ([]assistant.Session, error) {
	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list chat sessions")
	}
	return sessions, nil
}

// History returns the messages of chatID. Unknown sessions are empty, not
// an error.
func (s *Service) History(ctx context.Context, chatID string) ([]assistant.Message, error) {
	msgs, err := s.store.History(ctx, chatID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read chat history")
	}
	if msgs == nil {
		msgs = []assistant.Message{}
	}
	return msgs, nil
}

// RecordUpload notes an uploaded document in the session. The document
// content itself is not kept.
func (s *Service) RecordUpload(ctx context.Context, chatID, filename string) error {
	if strings.TrimSpace(chatID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "chat_id is required")
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		return dErrors.NewField(dErrors.CodeValidation, "file", "file name is required")
	}

	if err := s.store.Append(ctx, chatID, assistant.Message{
		Role:      assistant.RoleSystem,
		Content:   "Document uploaded: " + name,
		CreatedAt: requestcontext.Now(ctx),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record upload")
	}

	s.emit(ctx, audit.EventDocumentUploaded, chatID, map[string]any{"filename": name})
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, chatID string, payload map[string]any) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   chatID,
		Action:    string(action),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
		Payload:   payload,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record assistant audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", action,
			"error", err,
		)
	}
}
