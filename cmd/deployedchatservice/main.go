package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"python-chat/internal/chat"
	"python-chat/internal/config"
	"python-chat/internal/llm"
	"python-chat/internal/logging"
	"python-chat/internal/server"
)

const missingKeyMessage = "⚠️ Missing OpenAI API key. Please set OPENAI_API_KEY in your environment."

// main is the entry point for the deployed ChatService: the key comes from
// the environment only and the model is fixed.
func main() {
	cfg, err := config.Load("8081")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Halt before serving anything when there is no key.
	if err := cfg.RequireCredential(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, missingKeyMessage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Options{
		Level:   cfg.LogLevel,
		Console: cfg.IsDevelopment(),
		Service: "deployedchatservice",
	})

	var completionClient llm.CompletionClient
	if cfg.LLMStub {
		completionClient = llm.NewStubClient()
	} else {
		completionClient = llm.NewOpenAIClient(llm.ClientConfig{BaseURL: cfg.OpenAI.BaseURL})
	}
	llmService := llm.NewService(completionClient)

	store := chat.NewMemoryStore(cfg.Session.TTL)
	chatService := chat.NewService(chat.Config{
		Variant:           chat.VariantDeployed,
		DefaultCredential: cfg.OpenAI.APIKey,
		DefaultModel:      llm.DefaultModel,
	}, store, llmService)

	chatHandler := chat.NewHandler(chatService, chat.HandlerOptions{
		Variant:      chat.VariantDeployed,
		CookieSecure: cfg.Session.CookieSecure,
	})
	llmHandler := llm.NewHandler(llmService, llm.HandlerOptions{
		SystemPrompt:      chat.SystemPrompt,
		DefaultCredential: cfg.OpenAI.APIKey,
		FixedModel:        llm.DefaultModel,
	})

	r := server.NewRouter(logger, "DeployedChatService", chatHandler, llmHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Str("port", cfg.Port).
		Str("model", llm.DefaultModel).
		Bool("stub", cfg.LLMStub).
		Msg("DeployedChatService starting")

	err = server.Run(ctx, cfg.Addr(), server.Options{
		Handler:         r,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, func(ctx context.Context) error {
		return store.RunSweeper(ctx, cfg.Session.SweepInterval)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("DeployedChatService stopped")
	}
	logger.Info().Msg("DeployedChatService stopped")
}
