package llm

import (
	"context"
	"fmt"
	"testing"

	"python-chat/internal/domain"

	"go.uber.org/mock/gomock"
)

// setupMocks is a helper to create all mocks for our service.
func setupMocks(t *testing.T) (context.Context, *MockCompletionClient, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	return context.Background(), NewMockCompletionClient(ctrl), ctrl
}

// TestService_Reply_Success tests the happy path: the reply comes back trimmed.
func TestService_Reply_Success(t *testing.T) {
	ctx, mockClient, ctrl := setupMocks(t)
	defer ctrl.Finish()

	turns := []domain.Turn{
		{Role: domain.RoleSystem, Content: "only python"},
		{Role: domain.RoleUser, Content: "What is a decorator?"},
	}
	want := CompletionRequest{Model: ModelGPT4o, Turns: turns, Temperature: 0.2}

	// The client should see the whole conversation at temperature 0.2.
	mockClient.EXPECT().
		Complete(ctx, "sk-test", want).
		Return("\n  A decorator is...  \n", nil).
		Times(1)

	s := NewService(mockClient)
	reply, err := s.Reply(ctx, turns, ModelGPT4o, "sk-test")

	if err != nil {
		t.Fatalf("Reply() returned unexpected error: %v", err)
	}
	if reply != "A decorator is..." {
		t.Errorf("want reply '%s', got '%s'", "A decorator is...", reply)
	}
}

// TestService_Reply_DefaultModel checks an empty model falls back to the default.
func TestService_Reply_DefaultModel(t *testing.T) {
	ctx, mockClient, ctrl := setupMocks(t)
	defer ctrl.Finish()

	mockClient.EXPECT().
		Complete(ctx, "sk-test", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req CompletionRequest) (string, error) {
			if req.Model != DefaultModel {
				t.Errorf("want model '%s', got '%s'", DefaultModel, req.Model)
			}
			return "ok", nil
		}).
		Times(1)

	s := NewService(mockClient)
	if _, err := s.Reply(ctx, nil, "", "sk-test"); err != nil {
		t.Fatalf("Reply() returned unexpected error: %v", err)
	}
}

// TestService_Reply_ErrorPassesThrough checks the remote error is not rewrapped.
func TestService_Reply_ErrorPassesThrough(t *testing.T) {
	ctx, mockClient, ctrl := setupMocks(t)
	defer ctrl.Finish()

	remoteErr := fmt.Errorf(`POST "https://api.openai.com/v1/chat/completions": 401 Unauthorized {"code":"invalid_api_key"}`)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", remoteErr).
		Times(1)

	s := NewService(mockClient)
	_, err := s.Reply(ctx, nil, ModelGPT4oMini, "sk-bad")

	if err == nil {
		t.Fatal("Reply() expected an error but got nil")
	}
	if err.Error() != remoteErr.Error() {
		t.Errorf("wrong error message: %v", err)
	}
}
