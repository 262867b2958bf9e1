package llm

//go:generate mockgen -destination=./clients_mock_test.go -package=llm -source=clients.go

import (
	"context"
	"errors"
	"fmt"

	"python-chat/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrMissingCredential is returned when a completion is requested without an API key.
var ErrMissingCredential = errors.New("missing API credential")

// CompletionClient defines the contract for the external chat completions API.
type CompletionClient interface {
	// Complete sends the request authorized by credential and returns the
	// text of the first choice, untrimmed.
	Complete(ctx context.Context, credential string, req CompletionRequest) (string, error)
}

// ClientConfig configures the OpenAI client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint, eg for a proxy. Empty means the SDK default.
	BaseURL string
}

// openAIClient talks to OpenAI through the official SDK.
// One instance serves every session: the key travels with each request.
type openAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates the real client.
func NewOpenAIClient(cfg ClientConfig) CompletionClient {
	// The SDK retries 429s and 5xx by default; a reply is attempted exactly once.
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openAIClient{
		client: openai.NewClient(opts...),
	}
}

func (c *openAIClient) Complete(ctx context.Context, credential string, req CompletionRequest) (string, error) {
	if credential == "" {
		return "", ErrMissingCredential
	}

	params := openai.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    toMessages(req.Turns),
		Temperature: openai.Float(req.Temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithAPIKey(credential))
	if err != nil {
		// Left unwrapped so the provider's error text reaches the user verbatim.
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// toMessages converts turns to the SDK's message params, keeping order.
func toMessages(turns []domain.Turn) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(t.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(t.Content))
		default:
			out = append(out, openai.UserMessage(t.Content))
		}
	}
	return out
}

// stubClient is a fake CompletionClient for local development.
type stubClient struct{}

// NewStubClient creates a fake client.
func NewStubClient() CompletionClient {
	return &stubClient{}
}

func (s *stubClient) Complete(ctx context.Context, credential string, req CompletionRequest) (string, error) {
	if credential == "" {
		return "", ErrMissingCredential
	}
	// Return a canned response
	return "  (stub) Python answer from " + req.Model + ".\n", nil
}
