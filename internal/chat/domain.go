package chat

import (
	"errors"
	"strings"

	"python-chat/internal/domain"
)

// SystemPrompt is the hidden first turn of every conversation. It keeps the
// assistant on Python topics.
const SystemPrompt = "You are a helpful assistant that ONLY answers questions about the Python " +
	"programming language and its ecosystem (standard library, popular third-party " +
	"libraries, packaging, tooling, internals). If the user asks anything outside Python, " +
	"respond exactly: 'Sorry, I can only answer Python-related questions.' " +
	"When answering Python questions, be concise and provide minimal runnable examples " +
	"for Python 3.11+ when useful."

// Greeting is the visible assistant turn every conversation starts with.
const Greeting = "Hi! Ask me anything about Python 🐍."

// MissingCredentialReply is stored as the assistant turn when a session has no API key.
const MissingCredentialReply = "Please add your OpenAI API key in the sidebar."

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownModel    = errors.New("unknown model")
	ErrSettingsLocked  = errors.New("settings cannot be changed on this deployment")
)

// Conversation is the ordered list of turns for one session. The first turn
// is always the system prompt; it is never removed and never rendered.
type Conversation struct {
	turns []domain.Turn
}

// NewConversation returns a conversation seeded with the system prompt and the greeting.
func NewConversation() *Conversation {
	return &Conversation{
		turns: []domain.Turn{
			{Role: domain.RoleSystem, Content: SystemPrompt},
			{Role: domain.RoleAssistant, Content: Greeting},
		},
	}
}

// AppendUser adds the user's message verbatim. Blank text is rejected.
func (c *Conversation) AppendUser(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	c.turns = append(c.turns, domain.Turn{Role: domain.RoleUser, Content: text})
	return nil
}

// AppendAssistant adds a reply. Failure notices are stored the same way as answers.
func (c *Conversation) AppendAssistant(text string) {
	c.turns = append(c.turns, domain.Turn{Role: domain.RoleAssistant, Content: text})
}

// Turns returns a copy of every turn, system prompt included. This is what
// gets sent to the model.
func (c *Conversation) Turns() []domain.Turn {
	out := make([]domain.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Visible returns the turns shown to the user, oldest first.
func (c *Conversation) Visible() []domain.Turn {
	out := make([]domain.Turn, 0, len(c.turns))
	for _, t := range c.turns {
		if t.Role == domain.RoleSystem {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Len is the number of turns, system prompt included.
func (c *Conversation) Len() int {
	return len(c.turns)
}

func (c *Conversation) clone() *Conversation {
	return &Conversation{turns: c.Turns()}
}
