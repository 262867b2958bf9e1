package chat

//go:generate mockgen -destination=./service_mock_test.go -package=chat -source=service.go Service

import (
	"context"
	"fmt"
	"time"

	"python-chat/internal/auth"
	"python-chat/internal/domain"
	"python-chat/internal/llm"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service defines the business logic for the chat front end.
type Service interface {
	// StartSession creates a session with a freshly seeded conversation.
	StartSession(ctx context.Context) (*Session, error)

	// GetSession returns a copy of a live session.
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)

	// SendMessage appends the user's text, asks the model, and appends the reply.
	// A failed model call is not an error: its notice becomes the reply.
	SendMessage(ctx context.Context, id uuid.UUID, text string) (*Exchange, error)

	// UpdateSettings changes the key or model of an interactive session.
	UpdateSettings(ctx context.Context, id uuid.UUID, update SettingsUpdate) (*Session, error)

	// EndSession forgets the session and its conversation.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Config holds what the service needs to know about its deployment.
type Config struct {
	Variant Variant
	// DefaultCredential seeds every new session's key.
	DefaultCredential string
	// DefaultModel seeds every new session's model. The deployed variant never changes it.
	DefaultModel string
}

// service is the concrete implementation of the Service interface.
type service struct {
	cfg   Config
	store SessionStore
	llm   ReplyClient
	locks *sessionLocks
	now   func() time.Time
}

// NewService is the constructor for the chat service.
func NewService(cfg Config, store SessionStore, llmClient ReplyClient) Service {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = llm.DefaultModel
	}
	return &service{
		cfg:   cfg,
		store: store,
		llm:   llmClient,
		locks: newSessionLocks(),
		now:   time.Now,
	}
}

// StartSession implements the Service interface.
func (s *service) StartSession(ctx context.Context) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:           uuid.New(),
		Conversation: NewConversation(),
		Credential:   s.cfg.DefaultCredential,
		Model:        s.cfg.DefaultModel,
		CreatedAt:    now,
		LastSeen:     now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("session_id", sess.ID.String()).
		Str("variant", s.cfg.Variant.String()).
		Msg("session started")
	return sess, nil
}

// GetSession implements the Service interface.
func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.store.Get(ctx, id)
}

// SendMessage implements the Service interface.
func (s *service) SendMessage(ctx context.Context, id uuid.UUID, text string) (*Exchange, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.Conversation.AppendUser(text); err != nil {
		return nil, err
	}

	reply := s.requestReply(ctx, sess)
	sess.Conversation.AppendAssistant(reply)

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("could not save session: %w", err)
	}

	return &Exchange{
		User:      domain.Turn{Role: domain.RoleUser, Content: text},
		Assistant: domain.Turn{Role: domain.RoleAssistant, Content: reply},
	}, nil
}

// requestReply makes at most one model call and always produces reply text.
func (s *service) requestReply(ctx context.Context, sess *Session) string {
	if !sess.HasCredential() {
		return MissingCredentialReply
	}

	logger := zerolog.Ctx(ctx)
	start := s.now()

	// A reply runs to completion even if the client goes away mid-request.
	reply, err := s.llm.Reply(context.WithoutCancel(ctx), sess.Conversation.Turns(), sess.Model, sess.Credential)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("session_id", sess.ID.String()).
			Str("model", sess.Model).
			Msg("completion failed")
		return llm.ClassifyFailure(err.Error())
	}

	logger.Debug().
		Str("session_id", sess.ID.String()).
		Str("model", sess.Model).
		Int64("duration_ms", s.now().Sub(start).Milliseconds()).
		Msg("completion done")
	return reply
}

// UpdateSettings implements the Service interface.
func (s *service) UpdateSettings(ctx context.Context, id uuid.UUID, update SettingsUpdate) (*Session, error) {
	if s.cfg.Variant == VariantDeployed {
		return nil, ErrSettingsLocked
	}
	if update.Model != "" && !llm.IsKnownModel(update.Model) {
		return nil, ErrUnknownModel
	}

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case update.ClearCredential:
		sess.Credential = ""
	case update.Credential != "":
		sess.Credential = update.Credential
	}
	if update.Model != "" {
		sess.Model = update.Model
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("could not save session: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("session_id", id.String()).
		Str("model", sess.Model).
		Str("credential", auth.Mask(sess.Credential)).
		Msg("session settings updated")
	return sess, nil
}

// EndSession implements the Service interface.
func (s *service) EndSession(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not end session: %w", err)
	}
	return nil
}
