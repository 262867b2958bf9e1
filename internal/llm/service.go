package llm

//go:generate mockgen -destination=./service_mock_test.go -package=llm -source=service.go Service

import (
	"context"
	"strings"

	"python-chat/internal/domain"
)

// Service defines the business logic for the completion gateway.
type Service interface {
	// Reply sends the whole conversation to the model and returns its answer,
	// trimmed of surrounding whitespace. Errors from the remote call are
	// returned as they came back.
	Reply(ctx context.Context, turns []domain.Turn, model, credential string) (string, error)
}

// service is the concrete implementation of the Service interface.
type service struct {
	client CompletionClient
}

// NewService is the constructor for the completion gateway.
func NewService(client CompletionClient) Service {
	return &service{
		client: client,
	}
}

// Reply implements the Service interface.
func (s *service) Reply(ctx context.Context, turns []domain.Turn, model, credential string) (string, error) {
	if model == "" {
		model = DefaultModel
	}

	text, err := s.client.Complete(ctx, credential, CompletionRequest{
		Model:       model,
		Turns:       turns,
		Temperature: Temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
