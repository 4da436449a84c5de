package assistant

import (
	"time"
	"unicode/utf8"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a chat session's history.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session summarizes one chat session. FirstMessage is the content of its
// earliest message, or "" when the session has none.
type Session struct {
	ChatID       string
	FirstMessage string
}

const (
	titleMaxRunes = 40
	defaultTitle  = "New Chat"
)

// Title is the first 40 characters of the session's first message.
func (s Session) Title() string {
	if s.FirstMessage == "" {
		return defaultTitle
	}
	if utf8.RuneCountInString(s.FirstMessage) <= titleMaxRunes {
		return s.FirstMessage
	}
	return string([]rune(s.FirstMessage)[:titleMaxRunes])
}
