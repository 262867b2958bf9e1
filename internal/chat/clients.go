package chat

//go:generate mockgen -destination=./clients_mock_test.go -package=chat -source=clients.go

import (
	"context"

	"python-chat/internal/domain"
)

// ReplyClient is the contract for getting an answer from the model.
// llm.Service satisfies it.
type ReplyClient interface {
	// Reply sends the full conversation and returns the trimmed answer.
	Reply(ctx context.Context, turns []domain.Turn, model, credential string) (string, error)
}
