package chat

import (
	"time"

	"python-chat/internal/domain"

	"github.com/google/uuid"
)

// Variant selects which front end the service is backing.
type Variant int

const (
	// VariantInteractive lets each session enter its own key and pick a model.
	VariantInteractive Variant = iota
	// VariantDeployed uses the server's key and a fixed model.
	VariantDeployed
)

func (v Variant) String() string {
	if v == VariantDeployed {
		return "deployed"
	}
	return "interactive"
}

// Session is one browser's chat. It is never shared between sessions.
type Session struct {
	ID           uuid.UUID
	Conversation *Conversation
	// Credential is the OpenAI key used for this session's requests. Kept in memory only.
	Credential string
	Model      string
	CreatedAt  time.Time
	LastSeen   time.Time
}

// HasCredential reports whether the session can call the model.
func (s *Session) HasCredential() bool {
	return s.Credential != ""
}

func (s *Session) clone() *Session {
	c := *s
	c.Conversation = s.Conversation.clone()
	return &c
}

// SettingsUpdate is what the sidebar sends. Empty fields leave the current value alone.
type SettingsUpdate struct {
	Credential      string
	ClearCredential bool
	Model           string
}

// Exchange is the result of one interaction: the user's turn and the reply.
type Exchange struct {
	User      domain.Turn `json:"user"`
	Assistant domain.Turn `json:"assistant"`
}
