package handler

import (
	"strings"
	"unicode/utf8"

	"finai/internal/assistant"
	dErrors "finai/pkg/domain-errors"
)

const maxMessageRunes = 4000

// ChatRequest is the HTTP request body for POST /assistant/chat.
type ChatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ChatRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if utf8.RuneCountInString(r.Message) > maxMessageRunes {
		return dErrors.NewField(dErrors.CodeValidation, "message", "message must be at most 4000 characters")
	}
	if strings.TrimSpace(r.Message) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "message", "message is required")
	}
	r.ChatID = strings.TrimSpace(r.ChatID)
	return nil
}

type ChatResponse struct {
	ChatID string `json:"chat_id"`
	Reply  string `json:"reply"`
}

type SessionResponse struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
}

type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type UploadResponse struct {
	Message string `json:"message"`
}

func toSessionResponses(sessions []assistant.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{ChatID: s.ChatID, Title: s.Title()})
	}
	return out
}

func toMessageResponses(msgs []assistant.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{Role: string(m.Role), Content: m.Content})
	}
	return out
}
