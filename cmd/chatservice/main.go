package main

import (
	"context"
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

// main is the entry point for the interactive ChatService.
func main() {
	cfg, err := config.Load("8080")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Options{
		Level:   cfg.LogLevel,
		Console: cfg.IsDevelopment(),
		Service: "chatservice",
	})

	if !llm.IsKnownModel(cfg.OpenAI.Model) {
		logger.Fatal().Str("model", cfg.OpenAI.Model).Msg("CHAT_MODEL is not an allowed model")
	}

	// Stub client for local work without a key.
	var completionClient llm.CompletionClient
	if cfg.LLMStub {
		completionClient = llm.NewStubClient()
	} else {
		completionClient = llm.NewOpenAIClient(llm.ClientConfig{BaseURL: cfg.OpenAI.BaseURL})
	}
	llmService := llm.NewService(completionClient)

	// Sessions start with the environment key; the sidebar can replace it.
	store := chat.NewMemoryStore(cfg.Session.TTL)
	chatService := chat.NewService(chat.Config{
		Variant:           chat.VariantInteractive,
		DefaultCredential: cfg.OpenAI.APIKey,
		DefaultModel:      cfg.OpenAI.Model,
	}, store, llmService)

	chatHandler := chat.NewHandler(chatService, chat.HandlerOptions{
		Variant:      chat.VariantInteractive,
		CookieSecure: cfg.Session.CookieSecure,
	})
	llmHandler := llm.NewHandler(llmService, llm.HandlerOptions{
		SystemPrompt:      chat.SystemPrompt,
		DefaultCredential: cfg.OpenAI.APIKey,
	})

	r := server.NewRouter(logger, "ChatService", chatHandler, llmHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Str("port", cfg.Port).
		Str("model", cfg.OpenAI.Model).
		Bool("env_key", cfg.OpenAI.APIKey != "").
		Bool("stub", cfg.LLMStub).
		Msg("ChatService starting")

	err = server.Run(ctx, cfg.Addr(), server.Options{
		Handler:         r,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, func(ctx context.Context) error {
		return store.RunSweeper(ctx, cfg.Session.SweepInterval)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("ChatService stopped")
	}
	logger.Info().Msg("ChatService stopped")
}
